package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/api"
	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/form"
)

func newGetCommand(flags *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return flags.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				obj, err := env.Client.GetObject(ctx, args[0])
				if err != nil {
					return wrapRequest("get object "+args[0], err)
				}
				return writeObject(cmd.OutOrStdout(), format, obj)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table, json or yaml")
	return cmd
}

// mutationOptions are the flags shared by create, update and patch.
type mutationOptions struct {
	name   string
	attrs  []string
	output string
}

func (o *mutationOptions) register(cmd *cobra.Command, nameUsage string) {
	f := cmd.Flags()
	f.StringVar(&o.name, "name", "", nameUsage)
	f.StringArrayVar(&o.attrs, "attr", nil, "Attribute as key=value or key:type=value (type: text, number, price, boolean); repeatable")
	f.StringVarP(&o.output, "output", "o", "", "Output format: table, json or yaml")
}

func (o *mutationOptions) fields() ([]form.Field, error) {
	fields := make([]form.Field, 0, len(o.attrs))
	for _, spec := range o.attrs {
		field, err := form.ParseFieldSpec(spec)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// input builds and validates a full object body.
func (o *mutationOptions) input() (api.Input, error) {
	fields, err := o.fields()
	if err != nil {
		return api.Input{}, err
	}
	input := form.Build(o.name, fields)
	if verr := form.Validate(input); verr != nil {
		return api.Input{}, verr
	}
	return input, nil
}

const attrExamples = `
Attributes without a type are inferred: true/false are booleans, plain
numbers are numbers and values containing "$" are prices.`

func newCreateCommand(flags *globalFlags) *cobra.Command {
	opts := &mutationOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an object",
		Long: `Create an object. The server assigns its id.
` + attrExamples + `

Examples:
  shelf create --name "Apple MacBook Pro 16" --attr year=2019 --attr price:price=1849.99
  shelf create --name Pixel --attr color=black --attr refurbished=true`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(opts.output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			input, err := opts.input()
			if err != nil {
				return err
			}
			return flags.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				obj, err := env.Client.CreateObject(ctx, input)
				if err != nil {
					return wrapRequest("create object", err)
				}
				return writeObject(cmd.OutOrStdout(), format, obj)
			})
		},
	}
	opts.register(cmd, "Object name (required)")
	return cmd
}

func newUpdateCommand(flags *globalFlags) *cobra.Command {
	opts := &mutationOptions{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace an object",
		Long: `Replace an object's name and attributes. Attributes not given are
removed; use patch to change only some fields.
` + attrExamples,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(opts.output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			input, err := opts.input()
			if err != nil {
				return err
			}
			return flags.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				obj, err := env.Client.ReplaceObject(ctx, args[0], input)
				if err != nil {
					return wrapRequest("update object "+args[0], err)
				}
				return writeObject(cmd.OutOrStdout(), format, obj)
			})
		},
	}
	opts.register(cmd, "Object name (required)")
	return cmd
}

var errNothingToPatch = errors.New("nothing to change: pass --name or --attr")

func newPatchCommand(flags *globalFlags) *cobra.Command {
	opts := &mutationOptions{}
	cmd := &cobra.Command{
		Use:   "patch <id>",
		Short: "Change some fields of an object",
		Long: `Send only the given fields. When --attr is used the server replaces the
whole attribute set with the attributes given.
` + attrExamples,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(opts.output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fields, err := opts.fields()
			if err != nil {
				return err
			}
			var name *string
			if cmd.Flags().Changed("name") {
				name = &opts.name
			}
			if name == nil && len(fields) == 0 {
				return errNothingToPatch
			}
			patch := form.BuildPatch(name, fields)
			if patch.Name != nil {
				if verr := form.Validate(api.Input{Name: *patch.Name}); verr != nil {
					return verr
				}
			}
			return flags.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				obj, err := env.Client.PatchObject(ctx, args[0], patch)
				if err != nil {
					return wrapRequest("patch object "+args[0], err)
				}
				return writeObject(cmd.OutOrStdout(), format, obj)
			})
		},
	}
	opts.register(cmd, "New object name")
	return cmd
}

func newDeleteCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				if err := env.Client.DeleteObject(ctx, args[0]); err != nil {
					return wrapRequest("delete object "+args[0], err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted object %s\n", args[0])
				return err
			})
		},
	}
}
