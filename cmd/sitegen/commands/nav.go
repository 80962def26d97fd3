package commands

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/navigation"
	"git.home.luguber.info/inful/sitegen/internal/pages"
)

// NavCmd prints the navigation tree.
type NavCmd struct {
	Format string `short:"f" enum:"json,yaml" default:"json" help:"Output format (json|yaml)"`
}

func (n *NavCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	loaded, err := pages.Load(cfg.ContentDir)
	if err != nil {
		return err
	}
	tree := navigation.Build(loaded, navigation.Options{SegmentAware: cfg.Navigation.SegmentAware})

	var out []byte
	switch n.Format {
	case "yaml":
		out, err = yaml.Marshal(tree)
	default:
		out, err = json.MarshalIndent(tree, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return serrors.InternalError("encode navigation", err)
	}
	_, err = fmt.Fprint(g.Stdout, string(out))
	return err
}
