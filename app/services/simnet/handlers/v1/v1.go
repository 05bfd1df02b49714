// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/utxonet/utxonet/app/services/simnet/handlers/v1/public"
	"github.com/utxonet/utxonet/foundation/blockchain/network"
	"github.com/utxonet/utxonet/foundation/events"
	"github.com/utxonet/utxonet/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log  *zap.SugaredLogger
	Net  *network.Network
	Evts *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:  cfg.Log,
		Net:  cfg.Net,
		Evts: cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/node/list", pbl.Nodes)
	app.Handle(http.MethodGet, version, "/ledger/:node", pbl.Ledger)
	app.Handle(http.MethodGet, version, "/mempool/:node", pbl.Mempool)
	app.Handle(http.MethodGet, version, "/chain/:node", pbl.Chain)
	app.Handle(http.MethodPost, version, "/tx/submit/:node", pbl.SubmitTx)
}
