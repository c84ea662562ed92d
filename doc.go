/*
Package interpro2go annotates KBase genomes with InterProScan.

A single operation, Interpro2GO, fetches a genome from the Workspace, projects its
features into a protein FASTA file, runs the annotation tool against it and saves the
genome back under a new name together with a hidden report object.

# Architecture

The Service is the only stateful piece and depends on three ports:

  - ports.ObjectStore (through a ports.StoreFactory, one store per caller token)
  - ports.ToolRunner for the external tool
  - ports.DistributedLocker, optional, to serialise saves of the same output object

Adapters for each live under pkg/adapters: a Workspace JSON-RPC client, in-memory and
Redis stores, a local process runner, plus the HTTP and MCP transports that expose the
operation.

# Usage

	store := memory.NewStore()
	tool := process.NewRunner(process.ToolConfig{Command: "interproscan.sh"})

	svc, err := interpro2go.New("./scratch", ports.StaticStore(store), tool)
	if err != nil {
		log.Fatal(err)
	}

	res, err := svc.Interpro2GO(ctx, domain.CallContext{}, domain.Params{
		Workspace:    "my_ws",
		InputGenome:  "ecoli",
		OutputGenome: "ecoli_interpro",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.OutputGenomeRef)
*/
package interpro2go
