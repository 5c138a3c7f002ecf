package entity

// Counter consecutivo de pedidos por restaurante y año. Count es estrictamente
// no decreciente; cada consecutivo emitido es único y corresponde al valor
// posterior al incremento. Se crea perezosamente en el primer checkout del año.
type Counter struct {
	TenantID string
	Year     int
	Count    int
}
