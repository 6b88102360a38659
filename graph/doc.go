// Package graph ties a property-graph store to a graphprops.Codec.
//
// A Client writes nested property bags as flat, multi-valued properties and
// reads them back either from the element's exported record (GetJSONByID)
// or from a live listing of its property instances (GetProps). Stores are
// pluggable through the Store interface; see store/memstore and
// store/redisstore.
//
// Example:
//
//	client, err := graph.NewClient(memstore.New(), graph.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	id, err := client.CreateVertex(ctx, "person", props, meta)
//	if err != nil {
//	    return err
//	}
//	entity, err := client.GetJSONByID(ctx, graphprops.Vertex, id)
package graph
