package domain

// Currency is an ISO-like 3-letter code from the fixed supported set.
type Currency string

const (
	PLN Currency = "PLN"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CHF Currency = "CHF"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	NZD Currency = "NZD"
	SEK Currency = "SEK"
	NOK Currency = "NOK"
	DKK Currency = "DKK"
	CZK Currency = "CZK"
	HUF Currency = "HUF"
	THB Currency = "THB"
	SGD Currency = "SGD"
	HKD Currency = "HKD"
	UAH Currency = "UAH"
	TRY Currency = "TRY"
	RON Currency = "RON"
	BGN Currency = "BGN"
	ISK Currency = "ISK"
	ILS Currency = "ILS"
	MXN Currency = "MXN"
	ZAR Currency = "ZAR"
	BRL Currency = "BRL"
	CNY Currency = "CNY"
	INR Currency = "INR"
	KRW Currency = "KRW"
)

var supportedCurrencies = map[Currency]struct{}{
	PLN: {}, USD: {}, EUR: {}, GBP: {}, JPY: {}, CHF: {}, CAD: {}, AUD: {},
	NZD: {}, SEK: {}, NOK: {}, DKK: {}, CZK: {}, HUF: {}, THB: {}, SGD: {},
	HKD: {}, UAH: {}, TRY: {}, RON: {}, BGN: {}, ISK: {}, ILS: {}, MXN: {},
	ZAR: {}, BRL: {}, CNY: {}, INR: {}, KRW: {},
}

// IsSupported reports whether the code belongs to the fixed currency set.
func (c Currency) IsSupported() bool {
	_, ok := supportedCurrencies[c]
	return ok
}

func (c Currency) String() string {
	return string(c)
}
