package domain

// AccountInfo is the non-secret metadata of a single signing or view-only
// identity. PublicKey is unique within a Registry.
type AccountInfo struct {
	ID              string
	Name            string
	PublicKey       string
	Type            SecretType
	DerivationIndex *uint32
	ViewOnly        bool
	Picture         string
}

// IsDerived returns whether the account was sourced from a mnemonic
func (a AccountInfo) IsDerived() bool {
	return a.Type == MnemonicSecret
}

func (a AccountInfo) validate() error {
	if (a.Type == MnemonicSecret) != (a.DerivationIndex != nil) {
		return ErrMalformedAccount
	}
	if a.ViewOnly != (a.Type == ViewOnlySecret) {
		return ErrMalformedAccount
	}
	return nil
}

// Registry is the ordered collection of account metadata. The slice order
// is display order and is persisted state in its own right. NextIndex is a
// monotonic high-water mark over the derivation indices ever added, so that
// removing the highest-indexed account never causes its index to be
// re-derived.
type Registry struct {
	Accounts  []AccountInfo
	NextIndex uint32
}

// NewRegistry returns a new empty registry
func NewRegistry() *Registry {
	return &Registry{Accounts: make([]AccountInfo, 0)}
}
