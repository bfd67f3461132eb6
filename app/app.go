package app

import (
	"database/sql"

	"github.com/go-chi/oauth"
	"github.com/mverdi/surveyor/config"
)

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
}
