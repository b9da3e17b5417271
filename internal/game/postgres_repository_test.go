package game_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamevault/gamevault/internal/game"
)

func TestPostgresRepository_GetByID(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantGame  *game.Game
		wantErr   error
		errMsg    string
	}{
		{
			name: "found with genres",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM games g WHERE g.id = \$1`).
					WithArgs(int64(1)).
					WillReturnRows(pgxmock.NewRows([]string{"id", "name", "genres"}).
						AddRow(int64(1), "Game1", []game.Genre{{ID: 1, Name: "Action"}, {ID: 2, Name: "RPG"}}))
			},
			wantGame: &game.Game{ID: 1, Name: "Game1", Genres: []game.Genre{{ID: 1, Name: "Action"}, {ID: 2, Name: "RPG"}}},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM games g WHERE g.id = \$1`).
					WithArgs(int64(9)).
					WillReturnRows(pgxmock.NewRows([]string{"id", "name", "genres"}))
			},
			wantErr: game.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM games g WHERE g.id = \$1`).
					WithArgs(int64(1)).
					WillReturnError(errors.New("connection reset"))
			},
			errMsg: "querying game",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setupMock(mock)

			id := int64(1)
			if tt.wantErr != nil {
				id = 9
			}
			g, err := game.NewRepository(mock).GetByID(context.Background(), id)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantGame, g)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM games g ORDER BY g.id ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "genres"}).
			AddRow(int64(1), "Game1", []game.Genre{{ID: 1, Name: "Action"}}).
			AddRow(int64(2), "Game2", []game.Genre{}))

	games, err := game.NewRepository(mock).List(context.Background())

	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Game1", games[0].Name)
	assert.Len(t, games[0].Genres, 1)
	assert.Empty(t, games[1].Genres)
	assert.NoError(t, mock.ExpectationsWereMet())
}
