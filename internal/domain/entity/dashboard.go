package entity

// CountByKey par (clave, total) de agregaciones GROUP BY.
type CountByKey struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
