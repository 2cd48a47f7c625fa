package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/collector"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// definitionsFile accepts either a bare list of drafts or {fields: [...]}.
type definitionsFile struct {
	Fields []collector.Draft `yaml:"fields"`
}

func schemaCmd(opts *rootOptions) *cobra.Command {
	var title string
	var submitPath string

	c := &cobra.Command{
		Use:   "schema [file]",
		Short: "Print the OpenAPI document for a YAML or JSON list of field definitions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.cleanup()

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("schema: open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}

			drafts, err := readDefinitions(in)
			if err != nil {
				return err
			}
			b := builder.New(rt.builderOptions()...)
			if err := defineAll(cmd.Context(), b, drafts); err != nil {
				return err
			}

			if title == "" {
				title = rt.cfg.Server.Title
			}
			doc := openapi.Document(b.List().Fields(), openapi.Options{
				Title:      title,
				SubmitPath: submitPath,
			})
			payload, err := openapi.MarshalJSON(doc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return err
		},
	}

	c.Flags().StringVarP(&title, "title", "t", "", "document title (defaults to server.title)")
	c.Flags().StringVar(&submitPath, "submit-path", "/submit", "path of the submit operation")
	return c
}

func readDefinitions(in io.Reader) ([]collector.Draft, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("schema: read definitions: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var list []collector.Draft
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc definitionsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse definitions: %w", err)
	}
	return doc.Fields, nil
}

// defineAll runs every draft through the collector so the export only holds
// valid descriptors.
func defineAll(ctx context.Context, b *builder.Builder, drafts []collector.Draft) error {
	for i, draft := range drafts {
		if _, err := b.Define(ctx, draft); err != nil {
			if errs, ok := validation.As(err); ok {
				var msgs []string
				for _, fe := range errs {
					msgs = append(msgs, fe.Field+": "+fe.Message)
				}
				return fmt.Errorf("schema: definition %d: %s", i+1, strings.Join(msgs, "; "))
			}
			return err
		}
	}
	return nil
}
