package router

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/martinovalekse/Transport-catalog/catalogue"
)

var (
	// 错误：站点不存在，与catalogue.ErrNotFound相同
	ErrNotFound = catalogue.ErrNotFound
	// 错误：两站之间没有路径
	ErrNoRoute = errors.New("routing failed: no path")
	// 错误：速度或等车时间不合法
	ErrInvalidSettings = errors.New("invalid routing settings")
)

// 站点不存在或没有路径，对调用方都是"not found"
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoRoute)
}

var validate = validator.New()

type Settings struct {
	// 公交速度km/h
	Velocity float64 `validate:"gt=0"`
	// 每次上车前的等车时间min
	WaitTime float64 `validate:"gte=0"`
}

func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

// 以给定速度驶过meters所需的分钟数
func (s Settings) travelTime(meters int) float64 {
	return float64(meters) / 1000.0 / s.Velocity * 60.0
}

// 图中边的属性：乘坐的线路与经过的站数
type RideAttr struct {
	Bus       string
	SpanCount int
}

type StepType int

const (
	STEP_WAIT StepType = iota
	STEP_RIDE
)

func (t StepType) String() string {
	switch t {
	case STEP_WAIT:
		return "Wait"
	case STEP_RIDE:
		return "Bus"
	}
	return fmt.Sprintf("StepType(%d)", int(t))
}

// 行程中的一步
// Wait：在StopName等车Time分钟；Ride：乘Bus经过SpanCount站，用时Time分钟
type Step struct {
	Type      StepType
	StopName  string
	Bus       string
	SpanCount int
	Time      float64
}

type Itinerary struct {
	TotalTime float64
	Steps     []Step
}
