package pricing

import "instaquote/models"

// ServiceMetadata describes one catalog entry.
type ServiceMetadata struct {
	Key         models.ServiceKey  `json:"key"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
	Frequencies []models.Frequency `json:"frequencies,omitempty"`
}

// catalog is kept in display order; quotes list line items in this order.
var catalog = []ServiceMetadata{
	{
		Key:         models.ServiceMowing,
		Label:       "Mowing",
		Description: "Routine mowing for a clean and healthy lawn.",
		Frequencies: []models.Frequency{models.FrequencyWeekly, models.FrequencyBiweekly},
	},
	{
		Key:         models.ServiceAeration,
		Label:       "Aeration",
		Description: "Core aeration to improve water and nutrient flow.",
	},
	{
		Key:         models.ServicePowerRake,
		Label:       "Dethatching",
		Description: "Power raking to remove dead turf and loosen thatch.",
	},
	{
		Key:         models.ServiceFertilizing,
		Label:       "Fertilizing",
		Description: "Seasonal fertilization to improve lawn health and growth.",
	},
}

// Catalog returns a copy of the service catalog in display order.
func Catalog() []ServiceMetadata {
	out := make([]ServiceMetadata, len(catalog))
	copy(out, catalog)
	return out
}

// ServiceKeys returns the catalog identifiers in display order.
func ServiceKeys() []models.ServiceKey {
	keys := make([]models.ServiceKey, 0, len(catalog))
	for _, svc := range catalog {
		keys = append(keys, svc.Key)
	}
	return keys
}

// IsKnownService reports whether key is part of the catalog.
func IsKnownService(key models.ServiceKey) bool {
	for _, svc := range catalog {
		if svc.Key == key {
			return true
		}
	}
	return false
}

// Label returns the display label of key, or the key itself when unknown.
func Label(key models.ServiceKey) string {
	for _, svc := range catalog {
		if svc.Key == key {
			return svc.Label
		}
	}
	return string(key)
}
