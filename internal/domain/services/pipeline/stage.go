package pipeline

import (
	"context"
	"errors"
	"fmt"

	"smartess-http-service/internal/error/code"
)

// Stage 标识聚合管道中的一个阶段
type Stage string

const (
	StageIdentity   Stage = "identity"
	StageMembership Stage = "membership"
	StageProject    Stage = "project"
	StageHub        Stage = "hub"
	StageHubUser    Stage = "hub_user"
	StageOwner      Stage = "owner"
	StageAdmin      Stage = "admin"
	StageTicket     Stage = "ticket"
	StageAlert      Stage = "alert"
)

// Scope 表示阶段失败的影响范围
type Scope int

const (
	// ScopeGlobal 阶段失败导致整个请求失败
	ScopeGlobal Scope = iota
	// ScopeLocal 阶段失败只丢弃所在分支，兄弟分支继续
	ScopeLocal
)

// Policy 按阶段声明失败范围。
// 原则：失败域等于查询的批量粒度——整批查询失败是GLOBAL，
// 按项目/按hub的查询失败是LOCAL。
// 未声明的阶段默认GLOBAL（identity/membership/project始终GLOBAL）。
type Policy map[Stage]Scope

// ScopeOf 返回阶段的失败范围
func (p Policy) ScopeOf(stage Stage) Scope {
	if scope, ok := p[stage]; ok {
		return scope
	}
	return ScopeGlobal
}

// DashboardPolicy 仪表盘视图：hub/管理员/工单/告警都是单次批量查询，全部GLOBAL
var DashboardPolicy = Policy{
	StageHub:    ScopeGlobal,
	StageAdmin:  ScopeGlobal,
	StageTicket: ScopeGlobal,
	StageAlert:  ScopeGlobal,
}

// ListingPolicy 列表视图（units/surveillance）：hub按项目查询、
// 扩展数据按hub查询，失败只丢弃对应分支
var ListingPolicy = Policy{
	StageHub:     ScopeLocal,
	StageHubUser: ScopeLocal,
	StageOwner:   ScopeLocal,
	StageTicket:  ScopeLocal,
}

// StageError 携带失败阶段、错误码和失败范围
type StageError struct {
	Stage Stage
	Code  int
	Scope Scope
	Err   error
}

// Error 实现error接口
func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s stage: %s: %v", e.Stage, code.GetMessage(e.Code), e.Err)
	}
	return fmt.Sprintf("%s stage: %s", e.Stage, code.GetMessage(e.Code))
}

// Unwrap 支持errors.Is/As
func (e *StageError) Unwrap() error {
	return e.Err
}

// Message 返回对外暴露的阶段消息
func (e *StageError) Message() string {
	return code.GetMessage(e.Code)
}

// Global 判断该错误是否终止整个请求
func (e *StageError) Global() bool {
	return e.Scope == ScopeGlobal
}

// classify 将存储层错误包装为StageError。
// 超时一律GLOBAL：超时是取消，不是有意的部分降级
func classify(p Policy, stage Stage, errCode int, err error) *StageError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &StageError{Stage: stage, Code: code.ErrTimeout, Scope: ScopeGlobal, Err: err}
	}
	return &StageError{Stage: stage, Code: errCode, Scope: p.ScopeOf(stage), Err: err}
}

// NewStageError 构造一个带策略范围的阶段错误，供上层服务标记终态使用
func NewStageError(stage Stage, errCode int, scope Scope) *StageError {
	return &StageError{Stage: stage, Code: errCode, Scope: scope}
}
