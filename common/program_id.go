package common

var (
	SystemProgramID                    = StrToAddress("11111111111111111111111111111111")
	ConfigProgramID                    = StrToAddress("Config1111111111111111111111111111111111111")
	StakeProgramID                     = StrToAddress("Stake11111111111111111111111111111111111111")
	VoteProgramID                      = StrToAddress("Vote111111111111111111111111111111111111111")
	BPFLoaderProgramID                 = StrToAddress("BPFLoader1111111111111111111111111111111111")
	Secp256k1ProgramID                 = StrToAddress("KeccakSecp256k11111111111111111111111111111")
	TokenProgramID                     = StrToAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	MemoProgramID                      = StrToAddress("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
	SPLAssociatedTokenAccountProgramID = StrToAddress("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	SPLNameServiceProgramID            = StrToAddress("namesLPneVptA9Z5rqUDD9tMTWEJwofgaYwp8cawRkX")
	MetaplexTokenMetaProgramID         = StrToAddress("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
	ComputeBudgetProgramID             = StrToAddress("ComputeBudget111111111111111111111111111111")
	AddressLookupTableProgramID        = StrToAddress("AddressLookupTab1e1111111111111111111111111")
	Token2022ProgramID                 = StrToAddress("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	BPFLoaderUpgradeableProgramID      = StrToAddress("BPFLoaderUpgradeab1e11111111111111111111111")
)
