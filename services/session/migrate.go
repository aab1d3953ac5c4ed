package session

import (
	"instaquote/models"
	"instaquote/services/pricing"
)

// legacyServices maps identifiers from earlier catalogs to their current
// equivalent. An empty value drops the service.
var legacyServices = map[string]models.ServiceKey{
	"seed":        "",
	"fertWeed":    models.ServiceFertilizing,
	"fert_weed":   models.ServiceFertilizing,
	"dethatching": models.ServicePowerRake,
	"power_rake":  models.ServicePowerRake,
	"powerrake":   models.ServicePowerRake,
}

// MigrateServices remaps stored identifiers onto the current catalog. Unknown
// and duplicate entries are dropped; an empty result falls back to mowing.
func MigrateServices(stored []models.ServiceKey) []models.ServiceKey {
	seen := make(map[models.ServiceKey]bool, len(stored))
	out := make([]models.ServiceKey, 0, len(stored))
	for _, key := range stored {
		if mapped, ok := legacyServices[string(key)]; ok {
			key = mapped
		}
		if key == "" || !pricing.IsKnownService(key) || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	if len(out) == 0 {
		return []models.ServiceKey{models.ServiceMowing}
	}
	return out
}

// Migrate brings a loaded state up to CurrentVersion.
func Migrate(s *State) *State {
	if s == nil {
		return nil
	}
	s.Services = MigrateServices(s.Services)
	if !s.Frequency.Valid() {
		s.Frequency = models.FrequencyWeekly
	}
	if !s.Mode.Valid() {
		s.Mode = models.ModeArea
	}
	if s.Measurement < 0 {
		s.Measurement = 0
	}
	s.Version = CurrentVersion
	return s
}
