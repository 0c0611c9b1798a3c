/*
Package willd links together all the various components
to construct the will custody application.
*/
package willd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/app"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/store/iavl"
	"github.com/iov-one/testament/x"
	"github.com/iov-one/testament/x/batch"
	"github.com/iov-one/testament/x/cash"
	"github.com/iov-one/testament/x/sigs"
	"github.com/iov-one/testament/x/utils"
	"github.com/iov-one/testament/x/will"
	"github.com/prometheus/client_golang/prometheus"
)

// Msgs knows every message the application can route.
var Msgs = app.NewMsgRegistry(
	&cash.SendMsg{},
	&will.CreateMsg{},
	&will.CheckInMsg{},
	&will.SetAllocationMsg{},
	&will.RemoveAllocationMsg{},
	&will.CheckTriggerMsg{},
	&will.ApproveMsg{},
	&will.ReviveCheckInMsg{},
	&will.ExecuteMsg{},
	&will.CancelMsg{},
	&will.UpdateConfigurationMsg{},
	&batch.ExecuteBatchMsg{},
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery. A nil metrics decorator is skipped.
func Chain(metrics *utils.Metrics) app.Decorators {
	var m testament.Decorator
	if metrics != nil {
		m = *metrics
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		m,
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		// checkTrigger and execute can be called by anyone
		sigs.NewDecorator().AllowMissingSigs(),
		// on DeliverTx, bad tx will increment nonce even if the
		// message fails
		utils.NewSavepoint().OnDeliver(),
		batch.NewDecorator(Msgs),
		utils.NewActionTagger(),
	)
}

// Router returns a router dispatching to the cash and will handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := cash.NewController()
	cash.RegisterRoutes(r, authFn, ctrl)
	will.RegisterRoutes(r, authFn, ctrl)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/custody", "/auth", "/wills",
// "/allocations", "/disbursements" and "/wills/status"
func QueryRouter() app.QueryRouter {
	r := app.NewQueryRouter()
	ctrl := cash.NewController()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		func(qr testament.QueryRouter) { will.RegisterQuery(qr, ctrl) },
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(metrics *utils.Metrics) testament.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn))
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() testament.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		will.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h testament.Handler,
	tx testament.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx).WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// NewMetrics registers the transaction metrics with reg. A nil registerer
// disables metrics.
func NewMetrics(reg prometheus.Registerer) (*utils.Metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m, err := utils.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (testament.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewCommitStore("", "memory"), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
