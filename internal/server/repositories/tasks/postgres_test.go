package tasks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func taskRows(tasks ...*models.Task) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "description", "status", "created_at", "updated_at"})
	for _, task := range tasks {
		rows.AddRow(task.ID, task.UserID, task.Title, task.Description, string(task.Status), task.CreatedAt, task.UpdatedAt)
	}
	return rows
}

func TestSelectByOwner_NoFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `(?s)^SELECT\s+.+\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at$`
	mock.ExpectQuery(q).
		WithArgs("u-1").
		WillReturnRows(taskRows(
			&models.Task{ID: "t-1", UserID: "u-1", Title: "buy milk", Status: models.StatusOpen, CreatedAt: now, UpdatedAt: now},
			&models.Task{ID: "t-2", UserID: "u-1", Title: "buy eggs", Status: models.StatusDone, CreatedAt: now, UpdatedAt: now},
		))

	got, err := repo.SelectByOwner(context.Background(), "u-1", models.TaskFilter{})
	if err != nil {
		t.Fatalf("SelectByOwner error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t-1" || got[1].ID != "t-2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestSelectByOwner_StatusAndSearch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+status\s*=\s*\$2\s+AND\s+\(title\s+LIKE\s+\$3\s+OR\s+description\s+LIKE\s+\$3\)\s+ORDER\s+BY\s+created_at$`
	mock.ExpectQuery(q).
		WithArgs("u-1", models.StatusOpen, "%eggs%").
		WillReturnRows(taskRows())

	got, err := repo.SelectByOwner(context.Background(), "u-1", models.TaskFilter{Status: models.StatusOpen, Search: "eggs"})
	if err != nil {
		t.Fatalf("SelectByOwner error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestSelectByOwner_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.+\s+FROM\s+tasks`).
		WithArgs("u-1").
		WillReturnError(errors.New("db down"))

	_, err := repo.SelectByOwner(context.Background(), "u-1", models.TaskFilter{})
	if err == nil || !regexp.MustCompile(`failed to select tasks: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `(?s)^SELECT\s+.+\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
	mock.ExpectQuery(q).
		WithArgs("t-1", "u-1").
		WillReturnRows(taskRows(&models.Task{ID: "t-1", UserID: "u-1", Title: "buy milk", Status: models.StatusOpen, CreatedAt: now, UpdatedAt: now}))

	got, err := repo.GetByID(context.Background(), "t-1", "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != "t-1" || got.Title != "buy milk" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.+\s+FROM\s+tasks\s+WHERE\s+id`).
		WithArgs("t-404", "u-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "t-404", "u-1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestCreate_GeneratesIDAndOpenStatus(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `(?s)^INSERT\s+INTO\s+tasks\s*\(id,\s*user_id,\s*title,\s*description,\s*status\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at,\s*updated_at$`
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "u-1", "buy milk", "2%", models.StatusOpen).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	got, err := repo.Create(context.Background(), &models.Task{UserID: "u-1", Title: "buy milk", Description: "2%"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected generated id")
	}
	if got.Status != models.StatusOpen {
		t.Fatalf("new task must default to OPEN, got %s", got.Status)
	}
}

func TestUpdateStatus_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+tasks\s+SET\s+status\s*=\s*\$1,\s*updated_at\s*=\s*now\(\)\s*WHERE\s+id\s*=\s*\$2\s+AND\s+user_id\s*=\s*\$3$`
	mock.ExpectExec(q).
		WithArgs(models.StatusDone, "t-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(context.Background(), "t-1", "u-1", models.StatusDone); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
}

func TestUpdateStatus_NotOwned(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+tasks\s+SET\s+status`).
		WithArgs(models.StatusDone, "t-1", "u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "t-1", "u-2", models.StatusDone)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_AffectedCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
	mock.ExpectExec(q).
		WithArgs("t-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Delete(context.Background(), "t-1", "u-1")
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1 affected row, got %d", n)
	}

	mock.ExpectExec(q).
		WithArgs("t-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err = repo.Delete(context.Background(), "t-1", "u-1")
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if n != 0 {
		t.Fatalf("repeated delete must affect 0 rows, got %d", n)
	}
}
