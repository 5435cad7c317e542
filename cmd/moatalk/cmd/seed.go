package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/moatalk/moatalk/internal/config"
	"github.com/moatalk/moatalk/internal/database"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/logging"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with development fixture data",
	Long: `Seed creates a primary account ("user"), twenty numbered users with
alternating friendships, five lettered users and one group chatroom with a
short opening conversation. Existing accounts are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(ctx context.Context) error {
	logging.New()
	cfg := config.New()

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close(ctx)

	return seedFixtures(ctx,
		database.NewUserStore(db),
		database.NewRoomStore(db),
		database.NewChatStore(db))
}

// seedFixtures populates development data. It is idempotent per account:
// users that already exist are skipped, and wiring that depends on a skipped
// user is skipped with it, so a partially seeded database never fails.
func seedFixtures(ctx context.Context, users domain.UserRepository, rooms domain.RoomRepository, chats domain.ChatRepository) error {
	seedUser := func(name, loginID string) (*domain.User, error) {
		u, err := users.Register(ctx, name, loginID, loginID)
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			slog.Info("User already seeded, skipping", "login_id", loginID)
			return nil, nil
		}
		return u, err
	}

	primary, err := seedUser("유저", "user")
	if err != nil {
		return err
	}

	for i := 1; i <= 20; i++ {
		u, err := seedUser(fmt.Sprintf("유저%d", i), fmt.Sprintf("user%d", i))
		if err != nil {
			return err
		}
		if u == nil || primary == nil {
			continue
		}
		if i%2 == 0 {
			if err := users.AddFriend(ctx, primary.Seq, u.Seq); err != nil {
				return err
			}
		}
	}

	lettered := make([]*domain.User, 0, 5)
	for _, letter := range []string{"A", "B", "C", "D", "E"} {
		u, err := seedUser("유저"+letter, "user"+letter)
		if err != nil {
			return err
		}
		if u != nil {
			lettered = append(lettered, u)
		}
	}
	if primary != nil {
		for i, friend := range lettered {
			if i >= 3 {
				break
			}
			if err := users.AddFriend(ctx, primary.Seq, friend.Seq); err != nil {
				return err
			}
		}
	}

	if primary == nil || len(lettered) < 5 {
		slog.Info("Skipping fixture chatroom, accounts were partially seeded")
		return nil
	}

	memberIDs := []int64{primary.Seq}
	for _, u := range lettered {
		memberIDs = append(memberIDs, u.Seq)
	}
	room, err := rooms.Create(ctx, memberIDs, "")
	if err != nil {
		return err
	}

	if _, err := chats.AppendText(ctx, room.Seq, primary.Seq, "안녕"); err != nil {
		return err
	}
	if _, err := chats.AppendText(ctx, room.Seq, lettered[0].Seq, "안녕하세요"); err != nil {
		return err
	}

	slog.Info("Seed complete", "roomID", room.Seq)
	return nil
}
