package main

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	settings "github.com/goliatone/go-settings"
	"github.com/goliatone/go-settings/internal/tree"
	"github.com/goliatone/go-settings/pkg/storage"
	"github.com/goliatone/go-settings/schema/openapi"
	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get PATH",
		Short: "Print one value",
		Long: `Print the value at PATH. PATH is collection.category.setting,
collection.leaf, category.setting (default collection) or leaf.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), a.logger(cmd))
			if err != nil {
				return err
			}
			defer s.Close()

			path, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			value, ok := s.lookup(path)
			if !ok {
				return &settings.NotFoundError{Collection: path.Collection, Category: path.Category, Setting: path.Setting}
			}
			return writeValue(cmd.OutOrStdout(), a.cfg.Format, value)
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set PATH VALUE",
		Short: "Change one value and persist it",
		Long: `Change the value at PATH. VALUE is read as YAML, so true, 3 and [a, b]
keep their types. The path must be declared by a --schema file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), a.logger(cmd))
			if err != nil {
				return err
			}
			defer s.Close()

			path, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			value := parseValue(args[1])
			err = s.manager.OnSettingChange(cmd.Context(), path.Collection, path.Category, path.Setting, value)
			if (errors.Is(err, settings.ErrNotFound) || errors.Is(err, settings.ErrUnknownCollection)) && len(a.cfg.Schema) == 0 {
				return fmt.Errorf("%w (no --schema files loaded)", err)
			}
			if err != nil {
				return err
			}
			s.logger.Info("setting updated", "path", path.String(), "value", value)
			return nil
		},
	}
}

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump [COLLECTION]",
		Short: "Print the whole state tree or one collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), a.logger(cmd))
			if err != nil {
				return err
			}
			defer s.Close()

			state := s.manager.State()
			if len(args) == 1 {
				subtree, ok := tree.Child(state, args[0])
				if !ok {
					return &settings.UnknownCollectionError{ID: args[0]}
				}
				state = subtree
			}
			return writeValue(cmd.OutOrStdout(), a.cfg.Format, state)
		},
	}
}

func newSchemaCmd(a *app) *cobra.Command {
	var includeDisabled bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print an OpenAPI document for the loaded collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context(), a.logger(cmd))
			if err != nil {
				return err
			}
			defer s.Close()

			var opts []openapi.GeneratorOption
			if includeDisabled {
				opts = append(opts, openapi.WithDisabledCollections())
			}
			doc, err := openapi.Document(s.manager, opts...)
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), a.cfg.Format, doc)
		},
	}
	cmd.Flags().BoolVar(&includeDisabled, "include-disabled", false, "describe collections whose dependency is off")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print values as they change on disk (file: stores only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx, a.logger(cmd))
			if err != nil {
				return err
			}
			defer s.Close()

			fs, ok := s.store.(*storage.FileStore)
			if !ok {
				return fmt.Errorf("watch requires a file: store, got %q", a.cfg.Store)
			}

			previous := s.manager.State()
			return fs.Watch(ctx, func(key string) {
				if key != a.cfg.StorageKey {
					return
				}
				current, found, err := fs.GetData(ctx, key)
				if err != nil || !found {
					s.logger.Warn("watch: reread failed", "key", key, "error", err)
					return
				}
				for _, field := range changedFields(previous, current) {
					_ = writeValue(cmd.OutOrStdout(), a.cfg.Format, map[string]any{
						"path":  field.Path,
						"value": field.Value,
					})
				}
				previous = current
			})
		},
	}
}

// changedFields lists the leaves of next that differ from prev, sorted by
// path. Removed leaves are reported with a nil value.
func changedFields(prev, next map[string]any) []tree.Field {
	before := map[string]any{}
	for _, field := range tree.Flatten(prev, "") {
		before[field.Path] = field.Value
	}
	seen := map[string]struct{}{}
	var changed []tree.Field
	for _, field := range tree.Flatten(next, "") {
		seen[field.Path] = struct{}{}
		if old, ok := before[field.Path]; ok && reflect.DeepEqual(old, field.Value) {
			continue
		}
		changed = append(changed, field)
	}
	for path := range before {
		if _, ok := seen[path]; !ok {
			changed = append(changed, tree.Field{Path: path, Type: "nil"})
		}
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].Path < changed[j].Path })
	return changed
}
