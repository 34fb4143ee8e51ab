package cmd

import (
	"appdeck/internal/session"
	"appdeck/internal/tui"
)

func runTUI() error {
	e, err := openEnv(envOptions{interactive: true})
	if err != nil {
		return err
	}
	defer e.Close()

	opener, err := e.opener()
	if err != nil {
		return err
	}

	return tui.Run(tui.Config{
		Session:    session.New(),
		Scanner:    e.indexer,
		History:    e.store,
		Opener:     opener,
		MaxResults: e.cfg.UI.MaxResults,
		ShowPaths:  e.cfg.UI.ShowPaths,
	})
}
