// Package seed fills a development database with demo users and activity.
// Everything goes through the services, so the seeded notifications follow the same rules as real traffic.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/repositories"
	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "password123"

type Options struct {
	Users        int
	PostsPerUser int
	Seed         int64 // 0 picks a random seed
}

// ErrNoUsers is returned when Options asks for nothing
var ErrNoUsers = errors.New("seed: at least one user is required")

func (o Options) Validate() error {
	if o.Users < 1 {
		return ErrNoUsers
	}
	if o.PostsPerUser < 0 {
		return errors.New("seed: posts per user must not be negative")
	}
	return nil
}

// Result counts what was created
type Result struct {
	Users    int
	Posts    int
	Likes    int
	Comments int
	Follows  int
	Stories  int
}

type Seeder struct {
	store    *repositories.Store
	auth     *services.AuthService
	users    *services.UserService
	posts    *services.PostService
	likes    *services.LikeService
	comments *services.CommentService
	follows  *services.FollowService
	stories  *services.StoryService
	faker    *gofakeit.Faker
	logger   *slog.Logger
}

func NewSeeder(db *gorm.DB, opts Options, logger *slog.Logger) *Seeder {
	store := repositories.NewStore(db)
	rules := services.NewNotificationRules(services.SystemClock, logger)
	tokens := services.NewTokenManager("seed", 0, services.SystemClock)
	return &Seeder{
		store:    store,
		auth:     services.NewAuthService(store, tokens, nil, services.SystemClock),
		users:    services.NewUserService(store, services.SystemClock),
		posts:    services.NewPostService(store, nil, services.SystemClock),
		likes:    services.NewLikeService(store, rules, nil, services.SystemClock),
		comments: services.NewCommentService(store, rules, nil, services.SystemClock),
		follows:  services.NewFollowService(store, services.SystemClock, logger),
		stories:  services.NewStoryService(store, services.SystemClock, logger),
		faker:    gofakeit.New(opts.Seed),
		logger:   logger,
	}
}

// Clear removes all rows, children first
func (s *Seeder) Clear(ctx context.Context) error {
	db := s.store.DB().WithContext(ctx)
	tables := []interface{}{
		&models.Notification{}, &models.StoryView{}, &models.Story{}, &models.Report{},
		&models.Comment{}, &models.Like{}, &models.Post{}, &models.Follow{},
		&models.Profile{}, &models.User{},
	}
	for _, m := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", m, err)
		}
	}
	return nil
}

// Run creates opts.Users accounts, each with posts and a story, then likes, comments
// and follows between random pairs. The first account is staff.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	res := &Result{}

	users := make([]*models.User, 0, opts.Users)
	for len(users) < opts.Users {
		username := fmt.Sprintf("%s%d", s.faker.Username(), s.faker.Number(100, 999))
		resp, err := s.auth.Register(ctx, services.RegisterInput{Username: username, Password: DemoPassword})
		if err != nil {
			if models.ErrorCode(err) == models.CodeConflict {
				continue
			}
			return nil, fmt.Errorf("creating user: %w", err)
		}
		if len(users) == 0 {
			resp.User.IsStaff = true
			if err := s.store.Users.UpdateUser(ctx, resp.User); err != nil {
				return nil, err
			}
		}
		bio := s.faker.Sentence(8)
		avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", s.faker.UUID())
		if _, err := s.users.UpdateProfile(ctx, resp.User.ID, models.UpdateProfileRequest{Bio: &bio, AvatarURL: &avatar}); err != nil {
			return nil, err
		}
		users = append(users, resp.User)
	}
	res.Users = len(users)

	var posts []*models.Post
	for _, u := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			caption := s.faker.Sentence(s.faker.Number(3, 12))
			post, err := s.posts.CreatePost(ctx, services.CreatePostInput{
				UserID:   u.ID,
				ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/800", s.faker.UUID()),
				Caption:  &caption,
			})
			if err != nil {
				return nil, fmt.Errorf("creating post: %w", err)
			}
			posts = append(posts, post)
		}

		if s.faker.Bool() {
			images := make([]string, s.faker.Number(1, 3))
			for i := range images {
				images[i] = fmt.Sprintf("https://picsum.photos/seed/%s/1080/1920", s.faker.UUID())
			}
			created, err := s.stories.Upload(ctx, u.ID, images)
			if err != nil {
				return nil, fmt.Errorf("creating stories: %w", err)
			}
			res.Stories += len(created)
		}
	}
	res.Posts = len(posts)

	if len(users) < 2 {
		return res, nil
	}

	for _, u := range users {
		for _, other := range users {
			if other.ID == u.ID || s.faker.Number(0, 2) != 0 {
				continue
			}
			if _, err := s.follows.Toggle(ctx, u.ID, other.Username); err != nil {
				return nil, fmt.Errorf("creating follow: %w", err)
			}
			res.Follows++
		}
	}

	for _, p := range posts {
		for _, u := range users {
			if s.faker.Number(0, 3) == 0 {
				if _, err := s.likes.Toggle(ctx, u.ID, p.ID); err != nil {
					return nil, fmt.Errorf("creating like: %w", err)
				}
				res.Likes++
			}
		}

		var top *models.CommentResponse
		for i := s.faker.Number(0, 3); i > 0; i-- {
			author := users[s.faker.Number(0, len(users)-1)]
			in := services.CreateCommentInput{UserID: author.ID, PostID: p.ID, Content: s.faker.Sentence(6)}
			if top != nil && s.faker.Bool() {
				in.ParentID = &top.ID
			}
			c, err := s.comments.CreateComment(ctx, in)
			if err != nil {
				return nil, fmt.Errorf("creating comment: %w", err)
			}
			if c.ParentID == nil {
				top = c
			}
			res.Comments++
		}
	}

	s.logger.Info("seed complete",
		"users", res.Users, "posts", res.Posts, "likes", res.Likes,
		"comments", res.Comments, "follows", res.Follows, "stories", res.Stories)
	return res, nil
}
