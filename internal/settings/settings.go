// Package settings 提供公司排班规则配置，未配置时使用默认值
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

type Source interface {
	GetCompanySettings(ctx context.Context, companyID uuid.UUID) (*domain.CompanySettings, error)
}

// Provider 先读 redis 缓存，未命中时读数据库并回填缓存。
//
// rdb 为 nil 时不使用缓存；缓存读写失败只记录日志，不影响结果。
type Provider struct {
	source  Source
	rdb     *redis.Client
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger
}

type Options struct {
	TTL              time.Duration
	OperationTimeout time.Duration
	Logger           *slog.Logger
}

func NewProvider(source Source, rdb *redis.Client, opts Options) *Provider {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.OperationTimeout <= 0 {
		opts.OperationTimeout = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Provider{
		source:  source,
		rdb:     rdb,
		ttl:     opts.TTL,
		timeout: opts.OperationTimeout,
		logger:  opts.Logger.With("component", "settings"),
	}
}

func cacheKey(companyID uuid.UUID) string {
	return fmt.Sprintf("company_settings_%s", companyID)
}

func (p *Provider) Get(ctx context.Context, companyID uuid.UUID) (domain.CompanySettings, error) {
	if cs, ok := p.fromCache(ctx, companyID); ok {
		return cs, nil
	}

	stored, err := p.source.GetCompanySettings(ctx, companyID)
	if err != nil {
		return domain.CompanySettings{}, fmt.Errorf("获取公司配置失败: %w", err)
	}

	cs := WithDefaults(companyID, stored)
	p.toCache(ctx, cs)
	return cs, nil
}

// WithDefaults 对缺失的配置或非正数字段使用默认值
func WithDefaults(companyID uuid.UUID, stored *domain.CompanySettings) domain.CompanySettings {
	cs := domain.DefaultCompanySettings(companyID)
	if stored == nil {
		return cs
	}

	if stored.MaxDailyHours > 0 {
		cs.MaxDailyHours = stored.MaxDailyHours
	}
	if stored.MaxWeeklyHours > 0 {
		cs.MaxWeeklyHours = stored.MaxWeeklyHours
	}
	if stored.MinBreakHours >= 0 {
		cs.MinBreakHours = stored.MinBreakHours
	}
	return cs
}

func (p *Provider) fromCache(ctx context.Context, companyID uuid.UUID) (domain.CompanySettings, bool) {
	if p.rdb == nil {
		return domain.CompanySettings{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	data, err := p.rdb.Get(ctx, cacheKey(companyID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Warn("读取公司配置缓存失败", "company_id", companyID, "error", err)
		}
		return domain.CompanySettings{}, false
	}

	var cs domain.CompanySettings
	if err := json.Unmarshal(data, &cs); err != nil {
		p.logger.Warn("公司配置缓存格式错误", "company_id", companyID, "error", err)
		return domain.CompanySettings{}, false
	}
	return cs, true
}

func (p *Provider) toCache(ctx context.Context, cs domain.CompanySettings) {
	if p.rdb == nil {
		return
	}

	data, err := json.Marshal(cs)
	if err != nil {
		p.logger.Warn("无法序列化公司配置", "company_id", cs.CompanyID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.rdb.Set(ctx, cacheKey(cs.CompanyID), data, p.ttl).Err(); err != nil {
		p.logger.Warn("写入公司配置缓存失败", "company_id", cs.CompanyID, "error", err)
	}
}
