/*
Package ports defines the driven ports (interfaces) of the tree flattener.

These interfaces decouple the traversal from its storage and output media.

# Key Interfaces

  - NodeSource: looks a node up by id (sequential file scan, file index or memory).
  - NodeLister: streams every node, for introspection tools.
  - RuleSink: receives rules as they are discovered (file, memory, Redis).
*/
package ports
