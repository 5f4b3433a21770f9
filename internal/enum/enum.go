package enum

// ── Checkout state machine ──

const (
	CheckoutStateReview           = "REVIEW"
	CheckoutStatePaymentSelection = "PAYMENT_SELECTION"
	CheckoutStateConfirmed        = "CONFIRMED"
	CheckoutStateBlocked          = "BLOCKED"
)

// ── Payment methods ──
// Only CASH is accepted today; the other three are reserved for future
// payment integrations and stay disabled in the checkout flow.

const (
	PaymentMethodCash       = "CASH"
	PaymentMethodOnline     = "ONLINE"
	PaymentMethodNetBanking = "NETBANKING"
	PaymentMethodQRCode     = "QRCODE"
)

// ── Catalog categories (configurable labels, no constraint) ──

const (
	CategoryMillets   = "MILLETS"
	CategorySweets    = "SWEETS"
	CategoryBreakfast = "BREAKFAST"
	CategoryDessert   = "DESSERT"
	CategoryDrinks    = "DRINKS"
	CategoryLunch     = "LUNCH"
	CategoryDinner    = "DINNER"
	CategorySnacks    = "SNACKS"
)

// ── Auth providers accepted by social login ──

const (
	ProviderGoogle   = "GOOGLE"
	ProviderFacebook = "FACEBOOK"
	ProviderTwitter  = "TWITTER"
)
