/*
Package ports defines the driven ports (interfaces) of the interpro2go service.

These interfaces decouple the annotation method from the Workspace client, the
external annotation tool and the optional locking backend, so that each can be
replaced by an in-memory or local implementation.

# Key Interfaces

  - ObjectStore: fetches and saves Workspace objects.
  - ToolRunner: runs the external annotation tool against a FASTA file.
  - DistributedLocker: serialises saves of the same output object across replicas.
*/
package ports
