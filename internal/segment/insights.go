package segment

// Measure is one bar of the spending overview.
type Measure struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Share is one slice of the spending distribution.
type Share struct {
	Category string  `json:"category"`
	Spending float64 `json:"spending"`
	Share    float64 `json:"share"`
}

// Insights summarises the last prediction made for a customer.
type Insights struct {
	Segment        string    `json:"segment"`
	Recommendation string    `json:"recommendation"`
	Income         float64   `json:"income"`
	Age            float64   `json:"age"`
	Overview       []Measure `json:"overview"`
	Distribution   []Share   `json:"distribution"`
	TotalSpending  float64   `json:"total_spending"`
}

// NewInsights builds the overview of f. When nothing was spent every share
// is zero.
func NewInsights(f Features, p Prediction) Insights {
	spend := []Share{
		{Category: "Wine", Spending: f.WineSpend},
		{Category: "Meat", Spending: f.MeatSpend},
		{Category: "Fish", Spending: f.FishSpend},
	}

	var total float64
	for _, s := range spend {
		total += s.Spending
	}
	if total > 0 {
		for i := range spend {
			spend[i].Share = spend[i].Spending / total
		}
	}

	return Insights{
		Segment:        p.Segment,
		Recommendation: p.Recommendation,
		Income:         f.Income,
		Age:            f.Age,
		Overview: []Measure{
			{Category: "Wine Spending", Value: f.WineSpend},
			{Category: "Meat Spending", Value: f.MeatSpend},
			{Category: "Fish Spending", Value: f.FishSpend},
			{Category: "Web Visits", Value: f.WebVisits},
		},
		Distribution:  spend,
		TotalSpending: total,
	}
}
