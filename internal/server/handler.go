package server

import (
	"context"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	educationports "github.com/hanbitworks/backoffice/modules/education/domain/ports"
	educationpersistence "github.com/hanbitworks/backoffice/modules/education/infrastructure/persistence"
	educationcontrollers "github.com/hanbitworks/backoffice/modules/education/presentation/controllers"
	educationservices "github.com/hanbitworks/backoffice/modules/education/services"
	regulationports "github.com/hanbitworks/backoffice/modules/regulation/domain/ports"
	regulationpersistence "github.com/hanbitworks/backoffice/modules/regulation/infrastructure/persistence"
	regulationcontrollers "github.com/hanbitworks/backoffice/modules/regulation/presentation/controllers"
	regulationservices "github.com/hanbitworks/backoffice/modules/regulation/services"
	seceducationports "github.com/hanbitworks/backoffice/modules/seceducation/domain/ports"
	seceducationpersistence "github.com/hanbitworks/backoffice/modules/seceducation/infrastructure/persistence"
	seceducationcontrollers "github.com/hanbitworks/backoffice/modules/seceducation/presentation/controllers"
	seceducationservices "github.com/hanbitworks/backoffice/modules/seceducation/services"
	swassetports "github.com/hanbitworks/backoffice/modules/swasset/domain/ports"
	swassetpersistence "github.com/hanbitworks/backoffice/modules/swasset/infrastructure/persistence"
	swassetcontrollers "github.com/hanbitworks/backoffice/modules/swasset/presentation/controllers"
	swassetservices "github.com/hanbitworks/backoffice/modules/swasset/services"
	"github.com/hanbitworks/backoffice/pkg/bizcode"
	"github.com/hanbitworks/backoffice/pkg/comments"
	"github.com/hanbitworks/backoffice/pkg/draft"
	"github.com/hanbitworks/backoffice/pkg/kindcfg"
	"github.com/hanbitworks/backoffice/pkg/reconcile"
)

type HandlerOptions struct {
	TenancyResolver TenancyResolver
	Authorizer      authorizer
	SessionKV       SessionKVFactory
	Kinds           *kindcfg.Registry
	Codes           bizcode.Generator

	EducationStore        educationports.EducationStore
	CurriculumStore       educationports.CurriculumStore
	EducationAttendees    educationports.AttendeeStore
	EducationComments     reconcile.ChildStore[comments.Comment]
	SecEducationStore     seceducationports.SecEducationStore
	SecEducationAttendees seceducationports.AttendeeStore
	SecEducationComments  reconcile.ChildStore[comments.Comment]
	RegulationStore       regulationports.RegulationStore
	RegulationComments    reconcile.ChildStore[comments.Comment]
	SWAssetStore          swassetports.SWAssetStore
	PurchaseStore         swassetports.PurchaseStore
	SWAssetComments       reconcile.ChildStore[comments.Comment]
}

func NewHandler() (http.Handler, error) {
	return NewHandlerWithOptions(HandlerOptions{})
}

// NewHandlerWithOptions wires the HTTP surface. Stores left nil are
// built against Postgres from the environment; tests and DB-less dev
// servers inject memory stores instead.
func NewHandlerWithOptions(opts HandlerOptions) (http.Handler, error) {
	kinds := opts.Kinds
	if kinds == nil {
		loaded, err := kindcfg.LoadFromEnv()
		if err != nil {
			return nil, err
		}
		kinds = loaded
	}

	var pool *pgxpool.Pool
	needsDB := opts.EducationStore == nil || opts.SecEducationStore == nil ||
		opts.RegulationStore == nil || opts.SWAssetStore == nil ||
		opts.SessionKV == nil || opts.Codes == nil
	if needsDB {
		p, err := pgxpool.New(context.Background(), dbDSNFromEnv())
		if err != nil {
			return nil, err
		}
		pool = p
	}

	if opts.EducationStore == nil {
		opts.EducationStore = educationpersistence.NewEducationPGStore(pool)
	}
	if opts.CurriculumStore == nil {
		opts.CurriculumStore = educationpersistence.NewCurriculumPGStore(pool)
	}
	if opts.EducationAttendees == nil {
		opts.EducationAttendees = educationpersistence.NewAttendeePGStore(pool)
	}
	if opts.EducationComments == nil {
		opts.EducationComments = comments.NewPGStore(pool, "backoffice.education_comments", "education_id")
	}
	if opts.SecEducationStore == nil {
		opts.SecEducationStore = seceducationpersistence.NewSecEducationPGStore(pool)
	}
	if opts.SecEducationAttendees == nil {
		opts.SecEducationAttendees = seceducationpersistence.NewAttendeePGStore(pool)
	}
	if opts.SecEducationComments == nil {
		opts.SecEducationComments = comments.NewPGStore(pool, "backoffice.sec_education_comments", "sec_education_id")
	}
	if opts.RegulationStore == nil {
		opts.RegulationStore = regulationpersistence.NewRegulationPGStore(pool)
	}
	if opts.RegulationComments == nil {
		opts.RegulationComments = comments.NewPGStore(pool, "backoffice.regulation_comments", "regulation_id")
	}
	if opts.SWAssetStore == nil {
		opts.SWAssetStore = swassetpersistence.NewSWAssetPGStore(pool)
	}
	if opts.PurchaseStore == nil {
		opts.PurchaseStore = swassetpersistence.NewPurchasePGStore(pool)
	}
	if opts.SWAssetComments == nil {
		opts.SWAssetComments = comments.NewPGStore(pool, "backoffice.sw_asset_comments", "sw_asset_id")
	}
	if opts.SessionKV == nil {
		opts.SessionKV = newPGSessionKVFactory(pool)
	}
	if opts.Codes == nil {
		opts.Codes = bizcode.NewPGGenerator(pool)
	}

	if opts.TenancyResolver == nil {
		path := os.Getenv("TENANTS_PATH")
		if path == "" {
			p, err := defaultConfigPath("config/tenants.yaml")
			if err != nil {
				return nil, err
			}
			path = p
		}
		resolver, err := loadTenancyResolver(path)
		if err != nil {
			return nil, err
		}
		opts.TenancyResolver = resolver
	}

	if opts.Authorizer == nil {
		a, err := loadAuthorizer()
		if err != nil {
			return nil, err
		}
		opts.Authorizer = a
	}

	factories := map[string]DialogOpenerFactory{}
	if kind, ok := kinds.Kind(kindcfg.KindEducation); ok {
		factories[kind.Key] = func(drafts *draft.Store, author func(ctx context.Context) string) DialogOpener {
			return educationservices.NewEducationDialogs(
				kind, opts.EducationStore, opts.CurriculumStore, opts.EducationAttendees,
				opts.EducationComments, opts.Codes, drafts, author,
			)
		}
	}
	if kind, ok := kinds.Kind(kindcfg.KindSecEducation); ok {
		factories[kind.Key] = func(drafts *draft.Store, author func(ctx context.Context) string) DialogOpener {
			return seceducationservices.NewSecEducationDialogs(
				kind, opts.SecEducationStore, opts.SecEducationAttendees,
				opts.SecEducationComments, opts.Codes, drafts, author,
			)
		}
	}
	if kind, ok := kinds.Kind(kindcfg.KindRegulation); ok {
		factories[kind.Key] = func(drafts *draft.Store, author func(ctx context.Context) string) DialogOpener {
			return regulationservices.NewRegulationDialogs(
				kind, opts.RegulationStore, opts.RegulationComments, opts.Codes, drafts, author,
			)
		}
	}
	if kind, ok := kinds.Kind(kindcfg.KindSWAsset); ok {
		factories[kind.Key] = func(drafts *draft.Store, author func(ctx context.Context) string) DialogOpener {
			return swassetservices.NewSWAssetDialogs(
				kind, opts.SWAssetStore, opts.PurchaseStore,
				opts.SWAssetComments, opts.Codes, drafts, author,
			)
		}
	}

	dialogs := newDialogsAPI(factories, opts.SessionKV)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/healthz", handleHealth)

	for _, key := range kinds.Keys() {
		mux.Handle("/api/"+key+"/dialog/", dialogs)
	}

	educationController := educationcontrollers.EducationsController{Store: opts.EducationStore}
	mux.HandleFunc("/api/education/records", educationController.HandleEducationsAPI)
	mux.HandleFunc("/api/education/records/", educationController.HandleEducationsAPI)

	secEducationController := seceducationcontrollers.SecEducationsController{Store: opts.SecEducationStore}
	mux.HandleFunc("/api/seceducation/records", secEducationController.HandleSecEducationsAPI)
	mux.HandleFunc("/api/seceducation/records/", secEducationController.HandleSecEducationsAPI)

	regulationController := regulationcontrollers.RegulationsController{Store: opts.RegulationStore}
	mux.HandleFunc("/api/regulation/records", regulationController.HandleRegulationsAPI)
	mux.HandleFunc("/api/regulation/records/", regulationController.HandleRegulationsAPI)

	swAssetController := swassetcontrollers.SWAssetsController{Store: opts.SWAssetStore}
	mux.HandleFunc("/api/swasset/records", swAssetController.HandleSWAssetsAPI)
	mux.HandleFunc("/api/swasset/records/", swAssetController.HandleSWAssetsAPI)

	var handler http.Handler = mux
	handler = withAuthz(opts.Authorizer, handler)
	handler = withIdentity(handler)
	handler = withTenancy(opts.TenancyResolver, handler)
	handler = withSession(handler)
	return handler, nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func withTenancy(resolver TenancyResolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant, ok, err := resolver.ResolveTenant(r.Context(), requestHostname(r.Host))
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "tenancy_error", "tenancy error")
			return
		}
		if ok {
			r = r.WithContext(withTenant(r.Context(), tenant))
		}
		next.ServeHTTP(w, r)
	})
}
