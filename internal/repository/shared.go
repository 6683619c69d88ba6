package repository

// Pagination holds pagination parameters for listing entities.
type Pagination struct {
	PageNo   int32
	PageSize int32
}

func (p *Pagination) Offset() int32 { return (p.PageNo - 1) * p.PageSize }

// ListProgressQuery pages through stored snapshots in stable user-id order.
// Used by the backup tooling, which exports in batches.
type ListProgressQuery struct {
	Pagination
}
