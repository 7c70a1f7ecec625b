package bootstrap

import "context"

// AuditLog adalah catatan kejadian operasional non-bisnis (startup, shutdown,
// kegagalan infra) yang ingin dilihat tim ops terpisah dari log aplikasi.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
