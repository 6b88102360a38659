package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/graphprops"
	"github.com/zero-day-ai/graphprops/config"
	"github.com/zero-day-ai/graphprops/graph"
	"github.com/zero-day-ai/graphprops/normalize"
	"github.com/zero-day-ai/graphprops/value"
)

var errNeedsPersistentStore = errors.New("command needs a persistent store")

func (a *app) encodeCmd() *cobra.Command {
	var kind, metaPath string
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Print the property writes for a property bag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := graphprops.ParseKind(kind)
			if err != nil {
				return err
			}
			props, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			meta, err := readFile(metaPath)
			if err != nil {
				return err
			}

			instrs, err := a.codec().Encode(props, meta, k)
			if err != nil {
				return err
			}
			out := make([]value.Value, len(instrs))
			for i, in := range instrs {
				out[i] = in.ToValue()
			}
			return a.write(cmd, value.List(out...))
		},
	}
	kindFlag(cmd, &kind)
	cmd.Flags().StringVarP(&metaPath, "meta", "m", "", "JSON file with the metadata bag")
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Rebuild a vertex or edge record returned by a query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := graphprops.ParseKind(kind)
			if err != nil {
				return err
			}
			rec, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			codec := a.codec()
			var entity *graphprops.DecodedEntity
			if k == graphprops.Vertex {
				raw, err := graphprops.ParseRawVertex(rec)
				if err != nil {
					return err
				}
				entity = codec.DecodeVertex(raw)
			} else {
				raw, err := graphprops.ParseRawEdge(rec)
				if err != nil {
					return err
				}
				entity = codec.DecodeEdge(raw)
			}
			return a.write(cmd, entity.ToValue())
		},
	}
	kindFlag(cmd, &kind)
	return cmd
}

func (a *app) aggregateCmd() *cobra.Command {
	var kind, id string
	cmd := &cobra.Command{
		Use:   "aggregate [file]",
		Short: "Fold a property listing into a nested object",
		Long: `aggregate reads a JSON array of property instances shaped
{"id": .., "key": "..", "value": ..} and prints the element's properties
keyed by its identity field.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := graphprops.ParseKind(kind)
			if err != nil {
				return err
			}
			rec, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			listing, err := graphprops.ParseListing(rec)
			if err != nil {
				return err
			}

			idValue := value.Null()
			if id != "" {
				idValue = value.String(id)
			}
			return a.write(cmd, a.codec().Aggregate(idValue, k, listing))
		},
	}
	kindFlag(cmd, &kind)
	cmd.Flags().StringVar(&id, "id", "", "Element id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func (a *app) normalizeCmd() *cobra.Command {
	var dicts bool
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Replace dictionaries in a query result with plain objects",
		Long: `normalize rewrites a query result tree so every dictionary becomes a
plain object. JSON input has no dictionaries of its own; --dicts reads every
JSON object as a dictionary, the way a driver returns map results.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if dicts {
				v = asDicts(v)
			}
			return a.write(cmd, normalize.Normalize(v, a.cfg.NormalizeOptions(a.logger)...))
		},
	}
	cmd.Flags().BoolVar(&dicts, "dicts", false, "Treat every JSON object as a dictionary")
	return cmd
}

func (a *app) putCmd() *cobra.Command {
	var label, metaPath string
	cmd := &cobra.Command{
		Use:   "put [file]",
		Short: "Create a vertex in the configured store",
		Long: `put stores a vertex and prints its id. Each propctl run is a new
process, so put and props need a persistent store (store: redis in the
config file); the in-memory store is rejected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			meta, err := readFile(metaPath)
			if err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			defer graphprops.CloseWithLog(client, a.logger, "graph client")

			id, err := client.CreateVertex(cmd.Context(), label, props, meta)
			if err != nil {
				return err
			}
			a.logger.Info("vertex stored", "id", id, "store", a.cfg.GetStore())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "Vertex label (required)")
	cmd.Flags().StringVarP(&metaPath, "meta", "m", "", "JSON file with the metadata bag")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func (a *app) propsCmd() *cobra.Command {
	var kind string
	var record bool
	cmd := &cobra.Command{
		Use:   "props <id>",
		Short: "Print the properties of a stored element",
		Long: `props reads an element written by an earlier put. It needs a
persistent store (store: redis in the config file).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := graphprops.ParseKind(kind)
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			defer graphprops.CloseWithLog(client, a.logger, "graph client")

			if record {
				entity, err := client.GetJSONByID(cmd.Context(), k, args[0])
				if err != nil {
					return err
				}
				return a.write(cmd, entity.ToValue())
			}
			props, err := client.GetProps(cmd.Context(), k, args[0])
			if err != nil {
				return err
			}
			return a.write(cmd, props)
		},
	}
	kindFlag(cmd, &kind)
	cmd.Flags().BoolVar(&record, "record", false, "Print the decoded record with metadata instead of live properties")
	return cmd
}

func (a *app) client() (*graph.Client, error) {
	if a.cfg.GetStore() == config.StoreMemory {
		return nil, fmt.Errorf("%w: the %q store does not outlive a single run; set store: %s in the config file",
			errNeedsPersistentStore, config.StoreMemory, config.StoreRedis)
	}
	store, err := a.cfg.OpenStore(a.logger)
	if err != nil {
		return nil, err
	}
	return graph.NewClient(store, graph.WithLogger(a.logger), graph.WithCodec(a.codec()))
}

// asDicts converts every object in v to a dictionary.
func asDicts(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindList:
		items := make([]value.Value, len(v.Items()))
		for i, item := range v.Items() {
			items[i] = asDicts(item)
		}
		return value.List(items...)
	case value.KindObject, value.KindDict:
		obj := value.NewObject()
		v.Object().Range(func(k string, item value.Value) bool {
			obj.Set(k, asDicts(item))
			return true
		})
		return value.Dict(obj)
	}
	return v
}
