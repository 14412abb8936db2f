package catalog

// catalogAPIResponse is the provider's envelope for both lookup and search.
type catalogAPIResponse struct {
	ItemsResult struct {
		Items []catalogItem `json:"items"`
	} `json:"itemsResult"`
}

// catalogItem is a single product record. Every nested field is optional;
// conversion must tolerate any of them being absent.
type catalogItem struct {
	ASIN     string           `json:"asin"`
	ItemInfo *catalogItemInfo `json:"itemInfo,omitempty"`
	Offers   *catalogOffers   `json:"offers,omitempty"`
	Images   *catalogImages   `json:"images,omitempty"`
}

type catalogItemInfo struct {
	Title           *displayValue    `json:"title,omitempty"`
	ByLineInfo      *catalogByLine   `json:"byLineInfo,omitempty"`
	Classifications *classifications `json:"classifications,omitempty"`
	Features        *displayValues   `json:"features,omitempty"`
}

type catalogByLine struct {
	Brand *displayValue `json:"brand,omitempty"`
}

type classifications struct {
	Binding *displayValue `json:"binding,omitempty"`
}

type displayValue struct {
	DisplayValue string `json:"displayValue"`
}

type displayValues struct {
	DisplayValues []string `json:"displayValues"`
}

type catalogOffers struct {
	Listings []catalogListing `json:"listings"`
}

type catalogListing struct {
	Price       *catalogPrice `json:"price,omitempty"`
	SavingBasis *catalogPrice `json:"savingBasis,omitempty"`
}

type catalogPrice struct {
	Amount float64 `json:"amount"`
}

type catalogImages struct {
	Primary *catalogImageSet `json:"primary,omitempty"`
}

type catalogImageSet struct {
	Large *catalogImage `json:"large,omitempty"`
}

type catalogImage struct {
	URL string `json:"url"`
}
