package catalog

import (
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// maxFeatures caps how many feature bullets are carried over per product.
const maxFeatures = 5

// toProductData converts a provider item into domain product data, treating
// every nested field as optional. A record missing offers, images, or
// classification still yields whatever subset it has.
func toProductData(item *catalogItem, source string) *domain.ExternalProductData {
	data := &domain.ExternalProductData{
		ASIN:   item.ASIN,
		Source: source,
	}

	if info := item.ItemInfo; info != nil {
		if info.Title != nil {
			data.Title = info.Title.DisplayValue
		}
		if info.ByLineInfo != nil && info.ByLineInfo.Brand != nil {
			data.Brand = info.ByLineInfo.Brand.DisplayValue
		}
		if info.Classifications != nil && info.Classifications.Binding != nil {
			data.Category = info.Classifications.Binding.DisplayValue
		}
		if info.Features != nil {
			features := info.Features.DisplayValues
			if len(features) > maxFeatures {
				features = features[:maxFeatures]
			}
			data.Features = features
		}
	}

	if item.Offers != nil && len(item.Offers.Listings) > 0 {
		listing := &item.Offers.Listings[0]
		if listing.Price != nil {
			price := listing.Price.Amount
			data.CurrentPrice = &price
		}
		if listing.SavingBasis != nil {
			list := listing.SavingBasis.Amount
			data.ListPrice = &list
		}
	}

	if item.Images != nil && item.Images.Primary != nil && item.Images.Primary.Large != nil {
		data.ImageURL = item.Images.Primary.Large.URL
	}

	return data
}
