package domain

// AddAccount appends the account to the registry. The public key must not
// be already present.
func (r *Registry) AddAccount(account AccountInfo) error {
	if err := account.validate(); err != nil {
		return err
	}
	if _, err := r.AccountByPublicKey(account.PublicKey); err == nil {
		return ErrDuplicatePublicKey
	}

	r.Accounts = append(r.Accounts, account)
	if account.DerivationIndex != nil && *account.DerivationIndex >= r.NextIndex {
		r.NextIndex = *account.DerivationIndex + 1
	}
	return nil
}

// RemoveAccount removes the account with the given ID. NextIndex is left
// untouched so the removed derivation index is never reused.
func (r *Registry) RemoveAccount(id string) error {
	for i, account := range r.Accounts {
		if account.ID == id {
			r.Accounts = append(r.Accounts[:i], r.Accounts[i+1:]...)
			return nil
		}
	}
	return ErrAccountNotFound
}

// RenameAccount updates the display name of the account with the given ID
func (r *Registry) RenameAccount(id, name string) error {
	for i, account := range r.Accounts {
		if account.ID == id {
			r.Accounts[i].Name = name
			return nil
		}
	}
	return ErrAccountNotFound
}

// MoveAccount moves the account with the given ID to the provided display
// position
func (r *Registry) MoveAccount(id string, position int) error {
	if position < 0 || position >= len(r.Accounts) {
		return ErrInvalidAccountPosition
	}
	for i, account := range r.Accounts {
		if account.ID != id {
			continue
		}
		r.Accounts = append(r.Accounts[:i], r.Accounts[i+1:]...)
		rest := append([]AccountInfo{account}, r.Accounts[position:]...)
		r.Accounts = append(r.Accounts[:position], rest...)
		return nil
	}
	return ErrAccountNotFound
}

// AccountByID returns the account with the given ID
func (r *Registry) AccountByID(id string) (AccountInfo, error) {
	for _, account := range r.Accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return AccountInfo{}, ErrAccountNotFound
}

// AccountByPublicKey returns the account with the given public key
func (r *Registry) AccountByPublicKey(publicKey string) (AccountInfo, error) {
	for _, account := range r.Accounts {
		if account.PublicKey == publicKey {
			return account, nil
		}
	}
	return AccountInfo{}, ErrAccountNotFound
}

// NextDerivationIndex returns the index the next derived account must use
func (r *Registry) NextDerivationIndex() uint32 {
	return r.NextIndex
}

// HasDerivedAccounts returns whether any account is mnemonic-derived
func (r *Registry) HasDerivedAccounts() bool {
	for _, account := range r.Accounts {
		if account.IsDerived() {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the registry
func (r *Registry) Copy() *Registry {
	accounts := make([]AccountInfo, len(r.Accounts))
	for i, account := range r.Accounts {
		if account.DerivationIndex != nil {
			index := *account.DerivationIndex
			account.DerivationIndex = &index
		}
		accounts[i] = account
	}
	return &Registry{Accounts: accounts, NextIndex: r.NextIndex}
}
