package domain

// Challenge is a catalog-defined task with a base point value. A user can
// complete a given challenge at most once per UTC calendar day.
type Challenge struct {
	ID          string
	Name        string
	Description string
	Points      int
}

// Reward is a catalog entry users redeem points against.
type Reward struct {
	Name           string
	PointsRequired int
}
