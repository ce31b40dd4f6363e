package scenarios

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/stagehand/internal/config"
	"github.com/xkilldash9x/stagehand/pkg/screenplay"
	"github.com/xkilldash9x/stagehand/pkg/screenplay/rest"
	"github.com/xkilldash9x/stagehand/pkg/screenplay/web"
)

// PageOpener opens a browser page for an actor.
type PageOpener func(ctx context.Context) (web.Page, error)

// Cast gives every actor the ability to call APIs and to browse the web.
// Browsers are opened lazily, so API-only actors never start one.
type Cast struct {
	cfg    *config.Config
	open   PageOpener
	logger *zap.Logger
}

// NewCast prepares actors according to cfg. A nil open leaves actors
// without a browser.
func NewCast(cfg *config.Config, open PageOpener, logger *zap.Logger) *Cast {
	return &Cast{cfg: cfg, open: open, logger: logger.Named("cast")}
}

// PrepareActor implements screenplay.Cast.
func (c *Cast) PrepareActor(actor *screenplay.Actor) *screenplay.Actor {
	client := rest.NewClient(rest.ClientConfig{
		Timeout:            c.cfg.Network.Timeout,
		InsecureSkipVerify: c.cfg.Network.IgnoreTLSErrors,
	})
	api, err := rest.CallAnAPIAt("", rest.WithClient(client), rest.WithHeaders(c.cfg.Network.Headers))
	if err != nil {
		// An empty base URL is always valid.
		c.logger.Error("Could not prepare API ability.", zap.String("actor", actor.Name()), zap.Error(err))
	} else {
		actor.WhoCan(api)
	}

	if c.open != nil {
		actor.WhoCan(web.BrowseTheWebUsing(c.open))
	}
	c.logger.Debug("Actor prepared.", zap.String("actor", actor.Name()))
	return actor
}
