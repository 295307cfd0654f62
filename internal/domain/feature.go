package domain

// FeatureLabel is an outlet facility tag such as "Drive-Thru"
type FeatureLabel string

// Recognized outlet features, in canonical order
const (
	Feature24Hours           FeatureLabel = "24 Hours"
	FeatureBirthdayParty     FeatureLabel = "Birthday Party"
	FeatureBreakfast         FeatureLabel = "Breakfast"
	FeatureCashlessFacility  FeatureLabel = "Cashless Facility"
	FeatureDessertCenter     FeatureLabel = "Dessert Center"
	FeatureDigitalOrderKiosk FeatureLabel = "Digital Order Kiosk"
	FeatureDriveThru         FeatureLabel = "Drive-Thru"
	FeatureMcCafe            FeatureLabel = "McCafe"
	FeatureMcDelivery        FeatureLabel = "McDelivery"
	FeatureWiFi              FeatureLabel = "WiFi"
)

var vocabulary = [...]FeatureLabel{
	Feature24Hours,
	FeatureBirthdayParty,
	FeatureBreakfast,
	FeatureCashlessFacility,
	FeatureDessertCenter,
	FeatureDigitalOrderKiosk,
	FeatureDriveThru,
	FeatureMcCafe,
	FeatureMcDelivery,
	FeatureWiFi,
}

// Vocabulary returns a copy of the recognized feature labels in canonical order
func Vocabulary() []FeatureLabel {
	out := make([]FeatureLabel, len(vocabulary))
	copy(out, vocabulary[:])
	return out
}

// IsKnownFeature reports whether label is part of the vocabulary (exact, case-sensitive)
func IsKnownFeature(label FeatureLabel) bool {
	for _, known := range vocabulary {
		if known == label {
			return true
		}
	}
	return false
}

// FeatureStrings converts labels to plain strings
func FeatureStrings(labels []FeatureLabel) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}
	return out
}
