package agent

// Dimension is one of the eight fixed readiness categories. The string
// values are used as database join/filter keys, so they must match
// everywhere they appear, not just as display labels.
type Dimension string

const (
	DimensionTechnology        Dimension = "Technology"
	DimensionCustomerMarket    Dimension = "Customer/Market"
	DimensionBusinessModel     Dimension = "Business Model"
	DimensionTeam              Dimension = "Team"
	DimensionIP                Dimension = "IP"
	DimensionFunding           Dimension = "Funding"
	DimensionSustainability    Dimension = "Sustainability"
	DimensionSystemIntegration Dimension = "System Integration"
)

// AllDimensions returns the closed set in scoring order.
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionTechnology,
		DimensionCustomerMarket,
		DimensionBusinessModel,
		DimensionTeam,
		DimensionIP,
		DimensionFunding,
		DimensionSustainability,
		DimensionSystemIntegration,
	}
}

func IsValidDimension(s string) bool {
	for _, d := range AllDimensions() {
		if string(d) == s {
			return true
		}
	}
	return false
}
