// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/smallbiznis/airnex/internal/companycontext"
	companydomain "github.com/smallbiznis/airnex/internal/company/domain"
	"github.com/smallbiznis/airnex/internal/migration"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with the full schema. A
// single connection serialises transactions the way a real server would
// under row locks.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var nodeSeq atomic.Int64

// NewNode returns a snowflake generator with a node number no other test
// node in the process shares.
func NewNode(t testing.TB) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(nodeSeq.Add(1) % 1024)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

// SeedCompany stores a company and returns a context scoped to it.
func SeedCompany(t testing.TB, db *gorm.DB, node *snowflake.Node, name string) (context.Context, *companydomain.Company) {
	t.Helper()

	now := time.Now().UTC()
	company := &companydomain.Company{
		ID:        node.Generate(),
		Name:      name,
		Slug:      fmt.Sprintf("%s-%s", "company", uuid.NewString()[:8]),
		Sector:    "Services",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return companycontext.WithCompanyID(context.Background(), company.ID), company
}
