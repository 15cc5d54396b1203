package catalogue

import "errors"

var (
	// 错误：站点、线路或站间距离不存在
	ErrNotFound = errors.New("not found")
	// 错误：站点重名
	ErrDuplicateStop = errors.New("duplicate stop")
	// 错误：线路重名
	ErrDuplicateBus = errors.New("duplicate bus")
	// 错误：距离为负
	ErrInvalidDistance = errors.New("invalid distance")
)
