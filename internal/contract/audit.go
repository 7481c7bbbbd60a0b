package contract

import "github.com/alexanderramin/opsassist/internal/app"

type AuditRecord = app.AuditRecord
