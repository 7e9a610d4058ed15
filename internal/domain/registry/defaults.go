package registry

import "fmt"

// Built-in tables covering the Ethereum improvement proposals and client
// implementations the service ships with. Config can extend or override them.

func eipURL(number int) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/ethereum/EIPs/master/EIPS/eip-%d.md", number)
}

// DefaultSpecs returns the compiled-in spec descriptors.
func DefaultSpecs() []SpecDescriptor {
	return []SpecDescriptor{
		{
			ID:        "eip-1559",
			Title:     "EIP-1559: Fee market change for ETH 1.0 chain",
			SourceURL: eipURL(1559),
			FocusAreas: []string{
				"base fee calculation",
				"gas target elasticity",
				"fee burning",
				"transaction validity rules",
			},
			Keywords: []string{
				"basefee", "base_fee", "gaslimit", "gas_limit",
				"feecap", "fee_cap", "tiplimit", "priority",
				"1559", "dynamicfee", "dynamic_fee",
				"calcbasefee", "calc_base_fee", "verifyeip1559",
			},
		},
		{
			ID:        "eip-2930",
			Title:     "EIP-2930: Optional access lists",
			SourceURL: eipURL(2930),
			FocusAreas: []string{
				"access list encoding",
				"gas accounting for declared storage",
			},
			Keywords: []string{
				"2930", "access_list", "accesslist",
				"accesslisttx", "access_list_tx",
			},
		},
		{
			ID:        "eip-4788",
			Title:     "EIP-4788: Beacon block root in the EVM",
			SourceURL: eipURL(4788),
			FocusAreas: []string{
				"beacon root system contract",
				"ring buffer semantics",
			},
			Keywords: []string{
				"4788", "beacon_root", "beaconroot",
				"parent_beacon_block_root", "parentbeaconblockroot",
			},
		},
		{
			ID:        "eip-4844",
			Title:     "EIP-4844: Shard Blob Transactions",
			SourceURL: eipURL(4844),
			FocusAreas: []string{
				"blob gas accounting",
				"KZG commitment verification",
				"blob transaction validity",
				"sidecar handling",
			},
			Keywords: []string{
				"blob", "4844", "kzg", "shard",
				"blob_gas", "blobgas", "excess_blob_gas", "excessblobgas",
				"blob_fee", "blobfee", "blobhash", "blob_hash",
				"blobsidecar", "blob_sidecar", "blobtx", "blob_tx",
				"max_blob", "maxblob", "validateblobtransaction",
				"validate_blob", "calcexcessblobgas", "calc_excess_blob_gas",
				"blobbasefee", "blob_base_fee",
				"point_evaluation", "pointevaluation",
			},
		},
		{
			ID:        "eip-7002",
			Title:     "EIP-7002: Execution layer triggerable withdrawals",
			SourceURL: eipURL(7002),
			FocusAreas: []string{
				"withdrawal request queue",
				"system contract invocation",
			},
			Keywords: []string{
				"7002", "withdrawal_request", "withdrawalrequest",
				"execution_layer_exit", "executionlayerexit",
			},
		},
		{
			ID:        "eip-7251",
			Title:     "EIP-7251: Increase the MAX_EFFECTIVE_BALANCE",
			SourceURL: eipURL(7251),
			FocusAreas: []string{
				"effective balance ceiling",
				"validator consolidation",
			},
			Keywords: []string{
				"7251", "max_effective_balance", "maxeffectivebalance",
				"consolidation",
			},
		},
	}
}

// DefaultImplementations returns the compiled-in client registry.
func DefaultImplementations() []Implementation {
	return []Implementation{
		{Name: "go-ethereum", RepoURL: "https://github.com/ethereum/go-ethereum", Branch: "master", Language: "go"},
		{Name: "prysm", RepoURL: "https://github.com/prysmaticlabs/prysm", Branch: "master", Language: "go"},
		{Name: "lighthouse", RepoURL: "https://github.com/sigp/lighthouse", Branch: "stable", Language: "rust"},
		{Name: "nethermind", RepoURL: "https://github.com/NethermindEth/nethermind", Branch: "master", Language: "csharp"},
		{Name: "besu", RepoURL: "https://github.com/hyperledger/besu", Branch: "main", Language: "java"},
	}
}

// DefaultMappings returns the compiled-in (implementation, spec) file lists.
func DefaultMappings() []FileMapping {
	return []FileMapping{
		{
			ImplName: "go-ethereum",
			SpecID:   "eip-1559",
			Files: []SourceFile{
				{Path: "consensus/misc/eip1559/eip1559.go"},
				{Path: "core/types/transaction.go"},
				{Path: "core/types/tx_dynamic_fee.go"},
			},
		},
		{
			ImplName: "go-ethereum",
			SpecID:   "eip-2930",
			Files: []SourceFile{
				{Path: "core/types/tx_access_list.go"},
				{Path: "core/state/access_list.go"},
			},
		},
		{
			ImplName: "go-ethereum",
			SpecID:   "eip-4788",
			Files: []SourceFile{
				{Path: "core/vm/contracts.go"},
			},
		},
		{
			ImplName: "go-ethereum",
			SpecID:   "eip-4844",
			Files: []SourceFile{
				{Path: "consensus/misc/eip4844/eip4844.go"},
				{Path: "core/types/tx_blob.go"},
				{Path: "crypto/kzg4844/kzg4844.go"},
				{Path: "params/protocol_params.go"},
			},
		},
	}
}

// Default builds the registry from the compiled-in tables.
func Default() (*Registry, error) {
	return New(DefaultSpecs(), DefaultImplementations(), DefaultMappings())
}
