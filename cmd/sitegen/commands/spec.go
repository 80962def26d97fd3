package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/specification"
)

// SpecCmd fetches the specification and prints it.
type SpecCmd struct{}

func (s *SpecCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	doc, err := specification.Fetch(context.Background(), cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(g.Stdout, doc.Text)
	return err
}
