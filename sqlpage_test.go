package sqlpage

import (
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/RichardKnop/sqlpage/internal/pkg/logging"
)

//go:generate mockery --name=Executor --structname=MockExecutor --inpackage --case=snake --testonly

var (
	gen = newDataGen(time.Now().Unix())

	testLogger *zap.Logger
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "debug"
	}

	var err error
	testLogger, err = logging.New(level)
	if err != nil {
		panic(err)
	}
}

type dataGen struct {
	*gofakeit.Faker
}

func newDataGen(seed int64) *dataGen {
	g := dataGen{
		Faker: gofakeit.New(seed),
	}

	return &g
}

func (g *dataGen) User() map[string]any {
	return map[string]any{
		"id":     g.Int64(),
		"name":   g.Name(),
		"email":  g.Email(),
		"active": g.Bool(),
	}
}

func (g *dataGen) Users(n int) []any {
	users := make([]any, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, g.User())
	}
	return users
}
