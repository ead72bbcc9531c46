package repository

import "errors"

// 対象行が存在しない（infra層がgorm.ErrRecordNotFoundから変換する）
var ErrNotFound = errors.New("not found")
