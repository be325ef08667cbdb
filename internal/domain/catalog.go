package domain

// FilterAll значение фильтра, которое отключает его.
const FilterAll = "all"

// PriceBand ценовой диапазон фильтра каталога.
type PriceBand string

const (
	PriceAll        PriceBand = FilterAll
	PriceUnder1000  PriceBand = "under1000"
	Price1000To2000 PriceBand = "1000to2000"
	PriceOver2000   PriceBand = "over2000"
)

const (
	thousand     = 1000_00 // в центах
	twoThousands = 2000_00
)

func ParsePriceBand(s string) (PriceBand, bool) {
	switch b := PriceBand(s); b {
	case "":
		return PriceAll, true
	case PriceAll, PriceUnder1000, Price1000To2000, PriceOver2000:
		return b, true
	default:
		return "", false
	}
}

// Contains: under1000 строго меньше 1000.00, 1000to2000 включительно с обеих сторон,
// over2000 строго больше 2000.00.
func (b PriceBand) Contains(cents int64) bool {
	switch b {
	case PriceUnder1000:
		return cents < thousand
	case Price1000To2000:
		return cents >= thousand && cents <= twoThousands
	case PriceOver2000:
		return cents > twoThousands
	default:
		return true
	}
}

func PriceBandOf(cents int64) PriceBand {
	switch {
	case cents < thousand:
		return PriceUnder1000
	case cents <= twoThousands:
		return Price1000To2000
	default:
		return PriceOver2000
	}
}

// SortKey ключ сортировки каталога.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceLow  SortKey = "priceLow"
	SortPriceHigh SortKey = "priceHigh"
	SortRating    SortKey = "rating"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(s); k {
	case "":
		return SortFeatured, true
	case SortFeatured, SortPriceLow, SortPriceHigh, SortRating:
		return k, true
	default:
		return "", false
	}
}
