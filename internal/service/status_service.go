package service

import (
	"context"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/types"
	"tracker-backend/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sync/errgroup"
)

type StatusService struct {
	store       types.Store
	storageType string
	log         zerolog.Logger
}

func NewStatusService(store types.Store, storageType string, logger *logger.Logger) *StatusService {
	return &StatusService{
		store:       store,
		storageType: storageType,
		log:         logger.GetLogger("status-service"),
	}
}

func (s *StatusService) GetSystemStatus(ctx context.Context) (*models.SystemStatus, error) {
	var (
		tasks   []*models.Task
		members []*models.TeamMember
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = s.store.ListTasks(gctx)
		return err
	})
	g.Go(func() (err error) {
		members, err = s.store.ListMembers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	status := &models.SystemStatus{
		Tasks:   int64(len(tasks)),
		Members: int64(len(members)),
		Storage: s.storageType,
	}
	for _, task := range tasks {
		if task.AssignedTo == models.TeamAssignee {
			status.UnassignedTasks++
		}
	}
	for _, member := range members {
		if !member.NotWorking {
			status.ActiveMembers++
		}
	}

	// 主机指标获取失败不影响状态返回
	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		status.HostUptime = uptime
	} else {
		s.log.Warn().Err(err).Msg("Failed to read host uptime")
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		status.MemoryUsedPercent = vm.UsedPercent
	} else {
		s.log.Warn().Err(err).Msg("Failed to read memory usage")
	}

	return status, nil
}

// Ping reports whether the store is reachable.
func (s *StatusService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
