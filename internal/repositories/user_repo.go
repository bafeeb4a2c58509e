package repositories

import (
	"context"
	"fmt"
	"strings"

	"catena/internal/common"
	"catena/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error)
	Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate, actor uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, actor uuid.UUID) error
	UpdateProfilePic(ctx context.Context, id uuid.UUID, key string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.UserSummary, error)
	ListByType(ctx context.Context, userType string) ([]*models.UserSummary, error)
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, first_name, last_name, email, contact_number, password_hash, role, user_type,
	designation, status, gender, dob, city, state, country, profile_pic,
	last_updated_by, last_updated_at, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.ContactNumber, &u.PasswordHash,
		&u.Role, &u.UserType, &u.Designation, &u.Status, &u.Gender, &u.DOB,
		&u.Location.City, &u.Location.State, &u.Location.Country, &u.ProfilePic,
		&u.LastUpdatedBy, &u.LastUpdatedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = $1 OR (contact_number IS NOT NULL AND contact_number = $2)`,
		user.Email, user.ContactNumber).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	if count > 0 {
		return common.NewValidationError("user with this email or contact number already exists")
	}

	query := `
		INSERT INTO users (id, first_name, last_name, email, contact_number, password_hash, role, user_type,
			designation, status, gender, dob, city, state, country, profile_pic, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, user.ID, user.FirstName, user.LastName, user.Email, user.ContactNumber,
		user.PasswordHash, user.Role, user.UserType, user.Designation, user.Status, user.Gender, user.DOB,
		user.Location.City, user.Location.State, user.Location.Country, user.ProfilePic)
	if isUniqueViolation(err) {
		return common.NewValidationError("user with this email or contact number already exists")
	}
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

func (r *userRepo) List(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Role != "" {
		add("role = $%d", filter.Role)
	}
	if filter.Designation != "" {
		add("designation = $%d", filter.Designation)
	}
	if filter.UserType != "" {
		add("user_type = $%d", filter.UserType)
	}
	if s := common.SanitizeSearchQuery(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	page, limit := common.ValidatePaginationParams(filter.Page, filter.Limit)
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

func (r *userRepo) Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate, actor uuid.UUID) error {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.FirstName != nil {
		set("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		set("last_name", *upd.LastName)
	}
	if upd.ContactNumber != nil {
		set("contact_number", *upd.ContactNumber)
	}
	if upd.Role != nil {
		set("role", *upd.Role)
	}
	if upd.UserType != nil {
		set("user_type", *upd.UserType)
	}
	if upd.Designation != nil {
		set("designation", *upd.Designation)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.Gender != nil {
		set("gender", *upd.Gender)
	}
	if upd.DOB != nil {
		set("dob", *upd.DOB)
	}
	if upd.Location != nil {
		set("city", upd.Location.City)
		set("state", upd.Location.State)
		set("country", upd.Location.Country)
	}
	set("last_updated_by", actor)
	sets = append(sets, "last_updated_at = NOW()", "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if isUniqueViolation(err) {
		return common.FieldError("contactNumber", "is already in use")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("User")
	}
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, actor uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $1, last_updated_by = $2, last_updated_at = NOW(), updated_at = NOW()
		WHERE id = $3
	`, passwordHash, actor, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("User")
	}
	return nil
}

func (r *userRepo) UpdateProfilePic(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET profile_pic = $1, updated_at = NOW() WHERE id = $2`, key, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("User")
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("User")
	}
	return nil
}

func (r *userRepo) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.UserSummary, error) {
	out := make(map[uuid.UUID]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, first_name, last_name, email, profile_pic, role FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		s := &models.UserSummary{}
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.ProfilePic, &s.Role); err != nil {
			return nil, err
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

func (r *userRepo) ListByType(ctx context.Context, userType string) ([]*models.UserSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, first_name, last_name, email, profile_pic, role
		FROM users
		WHERE user_type = $1 AND status = 'active'
		ORDER BY first_name, last_name
	`, userType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.UserSummary
	for rows.Next() {
		s := &models.UserSummary{}
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.ProfilePic, &s.Role); err != nil {
			return nil, err
		}
		users = append(users, s)
	}
	return users, rows.Err()
}
