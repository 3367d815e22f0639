package api

import (
	"context"
	"fmt"
)

func (c *Client) Rooms(ctx context.Context) Result {
	return c.get(ctx, "/rooms", "", "Failed to fetch rooms")
}

func (c *Client) Room(ctx context.Context, id uint) Result {
	if id == 0 {
		return Failure("Invalid room ID")
	}
	return c.get(ctx, fmt.Sprintf("/rooms/%d", id), "", "Failed to fetch room details")
}
