// Package quota 提供 SOW 生成的配额限流能力
package quota

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Decision 一次限流检查的结果。
// 拒绝不是错误，是调用方需要向上透出的可重试状态。
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
	Message    string
}

// Status 限流器当前状态快照，查询不改变内部状态
type Status struct {
	RequestsUsed             int        `json:"requests_used"`
	RequestsRemaining        int        `json:"requests_remaining"`
	CooldownUntil            *time.Time `json:"cooldown_until,omitempty"`
	CooldownRemainingSeconds int        `json:"cooldown_remaining_seconds"`
	CanUse                   bool       `json:"can_use"`
}

// GenerationLimiter 固定配额 + 全量冷却的限流器。
// 配额耗尽后进入完整冷却期，与首次使用距今多久无关；
// 不是滑动窗口，也不是令牌桶。状态仅存活于进程生命周期。
type GenerationLimiter struct {
	maxUses  int
	cooldown time.Duration
	bypass   map[string]struct{}

	mu            sync.Mutex
	count         int
	windowStart   time.Time
	cooldownUntil time.Time

	// now 可注入时钟，测试中用于确定性推进时间
	now func() time.Time
}

// NewGenerationLimiter 创建限流器；非法参数回退到默认值（3 次 / 300s）
func NewGenerationLimiter(maxUses int, cooldown time.Duration, bypassIdentities []string) *GenerationLimiter {
	if maxUses <= 0 {
		maxUses = 3
	}
	if cooldown <= 0 {
		cooldown = 300 * time.Second
	}
	bypass := make(map[string]struct{}, len(bypassIdentities))
	for _, id := range bypassIdentities {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			bypass[id] = struct{}{}
		}
	}
	return &GenerationLimiter{
		maxUses:  maxUses,
		cooldown: cooldown,
		bypass:   bypass,
		now:      time.Now,
	}
}

// WithClock 替换时钟，仅用于测试
func (l *GenerationLimiter) WithClock(now func() time.Time) *GenerationLimiter {
	l.now = now
	return l
}

// Check 检查并消耗一次配额。检查与计数在同一临界区内完成，
// 两个并发调用不会在只剩一个名额时同时通过。
func (l *GenerationLimiter) Check(identity string) Decision {
	// 白名单身份不受限流约束
	if _, ok := l.bypass[strings.ToLower(strings.TrimSpace(identity))]; ok {
		return Decision{Allowed: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// 冷却中：拒绝并返回剩余等待时间
	if !l.cooldownUntil.IsZero() && now.Before(l.cooldownUntil) {
		remaining := l.cooldownUntil.Sub(now)
		return Decision{
			Allowed:    false,
			RetryAfter: remaining,
			Message:    denialMessage(remaining),
		}
	}

	// 冷却已过期：重置窗口
	if !l.cooldownUntil.IsZero() && !now.Before(l.cooldownUntil) {
		l.count = 0
		l.windowStart = time.Time{}
		l.cooldownUntil = time.Time{}
	}

	// 配额耗尽：开启新冷却期并拒绝
	if l.count >= l.maxUses {
		l.cooldownUntil = now.Add(l.cooldown)
		return Decision{
			Allowed:    false,
			RetryAfter: l.cooldown,
			Message: fmt.Sprintf("Rate limit exceeded (%d uses). %s",
				l.maxUses, waitHint(l.cooldown)),
		}
	}

	if l.count == 0 {
		l.windowStart = now
	}
	l.count++
	return Decision{Allowed: true}
}

// GetStatus 返回当前状态快照。
// 冷却已过期但尚未被 Check 重置时按重置后的视图计算，不修改内部状态。
func (l *GenerationLimiter) GetStatus() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if !l.cooldownUntil.IsZero() && now.Before(l.cooldownUntil) {
		until := l.cooldownUntil
		return Status{
			RequestsUsed:             l.maxUses,
			RequestsRemaining:        0,
			CooldownUntil:            &until,
			CooldownRemainingSeconds: int(l.cooldownUntil.Sub(now).Seconds()),
			CanUse:                   false,
		}
	}

	count := l.count
	if !l.cooldownUntil.IsZero() {
		// 冷却已过期，等价于窗口已重置
		count = 0
	}
	return Status{
		RequestsUsed:      count,
		RequestsRemaining: l.maxUses - count,
		CanUse:            true,
	}
}

// denialMessage 冷却中的拒绝文案，精确到分秒
func denialMessage(remaining time.Duration) string {
	return "Rate limit exceeded. " + waitHint(remaining)
}

func waitHint(d time.Duration) string {
	total := int(d.Seconds())
	minutes := total / 60
	seconds := total % 60
	if minutes > 0 {
		return fmt.Sprintf("Please wait %d minute%s and %d second%s before generating another SOW.",
			minutes, plural(minutes), seconds, plural(seconds))
	}
	return fmt.Sprintf("Please wait %d second%s before generating another SOW.", seconds, plural(seconds))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
