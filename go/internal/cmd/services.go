package main

import (
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/draftleague/go/internal/draft/pick"
	"github.com/mcdev12/draftleague/go/internal/draft/session"
	"github.com/mcdev12/draftleague/go/internal/freeagency"
	"github.com/mcdev12/draftleague/go/internal/rules"
	"github.com/mcdev12/draftleague/go/internal/store"
)

type Services struct {
	Sessions   *session.Service
	Picks      *pick.Service
	FreeAgency *freeagency.Service
}

func setupServices(st store.Store, r rules.Rules) *Services {
	// Store → App layer → Service layer
	clock := clockwork.NewRealClock()

	sessionApp := session.NewApp(st, clock, r)
	pickApp := pick.NewApp(st, clock, r)
	freeAgencyApp := freeagency.NewApp(st, clock, r)

	return &Services{
		Sessions:   session.NewService(sessionApp),
		Picks:      pick.NewService(pickApp),
		FreeAgency: freeagency.NewService(freeAgencyApp),
	}
}
