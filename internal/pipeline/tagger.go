package pipeline

import (
	"strings"

	"github.com/launchbase/readiness-api/internal/agent"
)

// keywordTable maps each readiness dimension to the lowercase phrases
// that mark a chunk as relevant to it. A chunk can match any number of
// dimensions.
var keywordTable = map[agent.Dimension][]string{
	agent.DimensionTechnology: {
		"technology", "trl", "prototype", "propulsion", "payload",
		"satellite bus", "engineering", "technical risk",
	},
	agent.DimensionCustomerMarket: {
		"market", "customer", "demand", "segment", "competitor",
		"go-to-market", "traction",
	},
	agent.DimensionBusinessModel: {
		"business model", "revenue", "pricing", "monetization",
		"unit economics", "margin",
	},
	agent.DimensionTeam: {
		"team", "founder", "hiring", "advisor", "headcount",
	},
	agent.DimensionIP: {
		"patent", "intellectual property", "trademark", "trade secret",
		"licensing",
	},
	agent.DimensionFunding: {
		"funding", "investment", "investor", "runway", "capital",
		"valuation", "grant",
	},
	agent.DimensionSustainability: {
		"sustainability", "debris", "deorbit", "environmental", "esg",
		"emissions",
	},
	agent.DimensionSystemIntegration: {
		"integration", "interface", "interoperability", "ground segment",
		"launch vehicle", "qualification testing",
	},
}

// TagDimensions assigns dimension tags to a chunk by case-insensitive
// keyword matching. A chunk matching nothing is tagged with all eight
// dimensions: downstream retrieval filters by tag, and an untagged chunk
// would silently drop out of every dimension's context.
func TagDimensions(content string) []string {
	lower := strings.ToLower(content)

	var tags []string
	for _, dim := range agent.AllDimensions() {
		for _, kw := range keywordTable[dim] {
			if strings.Contains(lower, kw) {
				tags = append(tags, string(dim))
				break
			}
		}
	}

	if len(tags) == 0 {
		for _, dim := range agent.AllDimensions() {
			tags = append(tags, string(dim))
		}
	}
	return tags
}
