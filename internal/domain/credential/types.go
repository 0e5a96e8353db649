package credential

import "time"

// ProviderKMA is the only provider that needs a caller supplied key today.
const ProviderKMA = "kma"

// Credential is a stored provider key. Sealed holds the encrypted key, never the plaintext.
type Credential struct {
	ID        string
	Provider  string
	Sealed    string
	CreatedAt time.Time
}

// RegisterRequest carries a provider key to store.
type RegisterRequest struct {
	Provider string `json:"provider"`
	Key      string `json:"key" binding:"required"`
}

// View is the public representation of a stored credential.
type View struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

// Config holds the sealing key for stored credentials.
type Config struct {
	EncryptionKey string
}

func (c Credential) view() View {
	return View{ID: c.ID, Provider: c.Provider, CreatedAt: c.CreatedAt}
}
