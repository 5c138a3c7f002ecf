package entity

import "time"

// Tenant un restaurante: la unidad de aislamiento de datos.
// Los secretos se guardan como hash bcrypt, nunca en claro.
type Tenant struct {
	ID                string
	Name              string
	Hostname          string // resolución hostname -> tenant en el middleware
	AdminPasswordHash string
	DeleteSecretHash  string // secreto para soft-delete/restauración en el histórico
	Timezone          string // zona de referencia para cortes de archivado (ej. America/Bogota)
	CreatedAt         time.Time
}
