// Comando de siembra: registra un restaurante con su hostname, la contraseña
// de la consola admin y el secreto de borrado del histórico.
//
//	go run ./cmd/seed -name "La Esquina" -hostname laesquina.local -password admin123 -secret borrar123
package main

import (
	"context"
	"flag"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

func main() {
	name := flag.String("name", "", "nombre del restaurante")
	hostname := flag.String("hostname", "", "hostname del sitio público")
	password := flag.String("password", "", "contraseña de la consola admin")
	secret := flag.String("secret", "", "secreto de borrado del histórico")
	timezone := flag.String("timezone", "America/Bogota", "zona horaria de referencia")
	flag.Parse()

	log := logger.New(logger.Config{Env: "development", Level: "info"})

	if *name == "" || *hostname == "" || *password == "" || *secret == "" {
		log.Fatal().Msg("name, hostname, password y secret son obligatorios")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cargar configuración")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de contraseña")
	}
	secretHash, err := bcrypt.GenerateFromPassword([]byte(*secret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de secreto")
	}

	t := &entity.Tenant{
		Name:              *name,
		Hostname:          *hostname,
		AdminPasswordHash: string(passwordHash),
		DeleteSecretHash:  string(secretHash),
		Timezone:          *timezone,
		CreatedAt:         time.Now(),
	}
	if err := postgres.NewTenantRepository(pool).Create(ctx, t); err != nil {
		log.Fatal().Err(err).Msg("crear tenant")
	}

	log.Info().Str("id", t.ID).Str("hostname", t.Hostname).Msg("restaurante registrado")
}
