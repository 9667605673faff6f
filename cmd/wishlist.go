package cmd

import "github.com/urfave/cli"

func wishlistAdd(ctx *cli.Context) error {
	return profileAdd(ctx, "wishlist")
}

func wishlistList(ctx *cli.Context) error {
	return profileList(ctx, "wishlist")
}

func wishlistRun(ctx *cli.Context) error {
	return runProfile(ctx, "wishlist")
}

func wishlistClear(ctx *cli.Context) error {
	return profileClear(ctx, "wishlist")
}

func wishlistStatus(ctx *cli.Context) error {
	return profileStatus(ctx, "wishlist")
}
