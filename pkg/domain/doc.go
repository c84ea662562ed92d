/*
Package domain contains the data model of the interpro2go annotation method.

It describes the records exchanged with the Workspace object store (genomes,
object info tuples, provenance, reports), the parameters and result of a single
invocation, and the closed set of failure kinds. The package performs no I/O.

# Key Entities

  - Params: the caller's workspace, input genome and output genome names.
  - Genome: an opaque genome record; only its features are ever inspected.
  - ObjectInfo: the positional 11-field tuple the store returns for a saved object.
  - ProvenanceAction: records which input objects produced an output object.
  - Report: the hidden summary object created once per invocation.
*/
package domain
