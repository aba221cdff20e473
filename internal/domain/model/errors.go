package model

import "errors"

// 前進のみの状態遷移に違反した
var ErrInvalidTransition = errors.New("invalid status transition")
