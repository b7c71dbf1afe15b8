package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartess-http-service/internal/error/code"
)

func TestSurveillanceGetUserProjectsCarriesCameraStatus(t *testing.T) {
	svc := NewSurveillanceService(unitsFixture(), testConfig())

	result, stageErr := svc.GetUserProjects(context.Background(), "manager@example.com")
	require.Nil(t, stageErr)
	require.Len(t, result.Projects, 1)
	require.Len(t, result.Projects[0].Units, 2)

	// 摄像头状态原样透传，其余结构与units视图一致
	assert.Equal(t, "active", result.Projects[0].Units[0].CameraStatus)
	assert.Equal(t, "offline", result.Projects[0].Units[1].CameraStatus)
	assert.Equal(t, "Michael", result.Projects[0].Units[0].Owner.FirstName)
}

func TestSurveillanceGetUserProjectsZeroOrgsReturnsEmptyList(t *testing.T) {
	store := unitsFixture()
	store.orgUsers = nil
	svc := NewSurveillanceService(store, testConfig())

	result, stageErr := svc.GetUserProjects(context.Background(), "manager@example.com")
	require.Nil(t, stageErr)
	assert.NotNil(t, result.Projects)
	assert.Empty(t, result.Projects)
}

func TestSurveillanceGetUserProjectsMissingUserIsNotFound(t *testing.T) {
	svc := NewSurveillanceService(unitsFixture(), testConfig())

	_, stageErr := svc.GetUserProjects(context.Background(), "ghost@example.com")
	require.NotNil(t, stageErr)
	assert.Equal(t, code.ErrUserNotFound, stageErr.Code)
}

func TestSurveillanceGetUserProjectsHubFailureDropsProject(t *testing.T) {
	store := unitsFixture()
	store.failOn = failTable("hub", errors.New("shard offline"))
	svc := NewSurveillanceService(store, testConfig())

	result, stageErr := svc.GetUserProjects(context.Background(), "manager@example.com")
	require.Nil(t, stageErr)
	// hub按项目查询是LOCAL，唯一项目被丢弃后返回空列表
	assert.Empty(t, result.Projects)
}
