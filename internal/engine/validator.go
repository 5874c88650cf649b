package engine

import (
	"context"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

// Validator 按 重复 -> 冲突 -> 规则 的顺序校验一个候选班次，返回第一个业务错误。
//
// 这里的检查只是建议性的：读取与写入之间数据可能被并发修改，最终以数据库约束为准。
type Validator struct {
	Duplicates *DuplicateGuard
	Conflicts  *ConflictDetector
	Rules      *RuleValidator
}

func NewValidator(store Reader) *Validator {
	return &Validator{
		Duplicates: NewDuplicateGuard(store),
		Conflicts:  NewConflictDetector(store),
		Rules:      NewRuleValidator(store),
	}
}

type CheckOptions struct {
	SkipDuplicate bool
}

func (v *Validator) Check(ctx context.Context, settings domain.CompanySettings, c Candidate, opts CheckOptions) error {
	if !opts.SkipDuplicate {
		dup, err := v.Duplicates.IsDuplicate(ctx, c)
		if err != nil {
			return err
		}
		if dup {
			return domain.NewDuplicateAssignment()
		}
	}

	conflict, err := v.Conflicts.CheckConflicts(ctx, c)
	if err != nil {
		return err
	}
	if conflict.HasConflict {
		return domain.NewShiftConflict(conflict.ConflictingAssignment.ID)
	}

	result, err := v.Rules.Validate(ctx, settings, c)
	if err != nil {
		return err
	}
	if !result.IsValid {
		return domain.NewBusinessRuleViolation(result.Violations)
	}

	return nil
}

// CheckAll 依次校验所有候选班次，遇到第一个失败立即返回，错误中带有出错的候选班次
func (v *Validator) CheckAll(ctx context.Context, settings domain.CompanySettings, cs []Candidate, opts CheckOptions) error {
	for _, c := range cs {
		if err := v.Check(ctx, settings, c, opts); err != nil {
			return domain.WithCandidate(err, c.Ref())
		}
	}
	return nil
}
