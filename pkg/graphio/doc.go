// Package graphio reads and writes bundle graphs as JSON or TOML.
//
// # Format
//
// Both encodings share one document shape:
//
//	{
//	  "version": 2,
//	  "id": "5c0d...",
//	  "name": "textures",
//	  "nodes": [
//	    {
//	      "id": "9a1f...", "name": "Load", "kind": "Loader", "x": 0, "y": 0,
//	      "outputs": [{"id": "e0b2...", "label": "+"}],
//	      "settings": {"load_path": "Assets/Textures"}
//	    }
//	  ],
//	  "connections": [
//	    {"id": "77c4...", "from": "e0b2...", "to": "41d9..."}
//	  ]
//	}
//
// Connections refer to point ids; the owning nodes are resolved on load.
// Settings are the operation's own encoding (see the node package) and are
// decoded through its kind table, so unknown kinds are rejected.
//
// Every id survives a round trip, which keeps engine caches valid across
// save and load.
//
// # Usage
//
//	g, err := graphio.ReadFile("graph.toml")
//	...
//	err = graphio.WriteFile(g, "graph.json")
//
// Version 1 documents are not read here; convert them with the legacy
// package first.
package graphio
