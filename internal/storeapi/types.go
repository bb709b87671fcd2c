package storeapi

// Cart is the server-owned aggregate. It is replaced wholesale on every
// fetch; derived totals are computed from these fields client-side.
type Cart struct {
	ID             string     `json:"id"`
	Items          []CartItem `json:"items"`
	OriginalPrice  float64    `json:"original_price"`
	ItemDiscount   float64    `json:"item_discount"`
	PromoDiscount  float64    `json:"promo_discount"`
	VAT            float64    `json:"vat"`
	ShippingCharge float64    `json:"shipping_charge"`
	Currency       string     `json:"currency"`
	MinOrderAmount float64    `json:"min_order_amount"`
	PromoCode      string     `json:"promo_code,omitempty"`

	// GuestToken is present when the server minted a fresh guest session
	// for an unauthenticated cart fetch.
	GuestToken string `json:"guest_token,omitempty"`
}

type CartItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount"`
	ImageURL  string  `json:"image_url,omitempty"`
}

type Address struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type PromoCode struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Discount    float64 `json:"discount"`
}

// PaymentIntegration is one gateway option offered for a checkout session.
// Selection is by Mode string equality.
type PaymentIntegration struct {
	Mode        string `json:"mode"`
	Gateway     string `json:"gateway"`
	APIKey      string `json:"api_key"`
	Description string `json:"description"`
}

// PaymentSession is the gateway-specific descriptor returned by the
// payment-create endpoint.
type PaymentSession struct {
	Gateway        string  `json:"gateway"`
	PaymentOrderID string  `json:"payment_order_id"`
	SessionID      string  `json:"session_id,omitempty"`
	APIKey         string  `json:"api_key,omitempty"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
}

type Order struct {
	ID          string  `json:"id"`
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
}

// LocationCheck is the result of the check-location pre-flight validation.
type LocationCheck struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}
