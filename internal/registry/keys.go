package registry

import (
	"github.com/parley-chat/parley/internal/domain"
	"github.com/parley-chat/parley/internal/storage"
)

// Core service keys. The server registers these before any module boots, so
// every module can rely on them being present.
var (
	KeyUserStore    = Key[domain.UserRepository]("core.users")
	KeyMessageStore = Key[domain.MessageRepository]("core.messages")
	KeyTurnStore    = Key[domain.TurnRepository]("core.turns")
	KeyFileStore    = Key[domain.FileRepository]("core.files")
	KeyUploadStore  = Key[storage.Store]("core.uploads")
)
