// Command shopctl is a thin storefront client: it browses the catalog and
// places orders from a local cart.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"fishmart-be/internal/cart"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var errShopClosed = errors.New("Shop is currently closed")

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "shopctl",
		Usage:     "browse the catalog and place orders",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				EnvVars: []string{"FISHMART_URL"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "bearer token, as printed by migrate token",
				EnvVars: []string{"FISHMART_TOKEN"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "products",
				Usage: "list the catalog",
				Action: func(c *cli.Context) error {
					products, err := newClient(c.String("url"), c.String("token")).Products(c.Context)
					if err != nil {
						return err
					}

					tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "NAME\tPRICE\tSTOCK\tSTATUS")
					for _, p := range products {
						fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.FishName, p.Price.StringFixed(2), p.StockQuantity, p.Status)
					}
					return tw.Flush()
				},
			},
			{
				Name:      "order",
				Usage:     "place an order",
				ArgsUsage: "--item Pomfret:2:Whole [--item ...]",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "item", Required: true, Usage: "name:qty[:Whole|Cleaned]"},
				},
				Action: func(c *cli.Context) error {
					cl := newClient(c.String("url"), c.String("token"))

					st, err := cl.ShopStatus(c.Context)
					if err != nil {
						return err
					}
					if !st.IsOpen {
						return errShopClosed
					}

					catalog, err := cl.Products(c.Context)
					if err != nil {
						return err
					}
					basket, err := buildCart(c.StringSlice("item"), catalog)
					if err != nil {
						return err
					}
					printCart(out, basket)

					lines, err := basket.Checkout()
					if err != nil {
						return err
					}
					o, err := cl.PlaceOrder(c.Context, lines)
					if err != nil {
						return err
					}

					fmt.Fprintf(out, "order %s %s total %s\n", o.ID, o.Status, o.TotalAmount.StringFixed(2))
					return nil
				},
			},
		},
	}
}

func printCart(out io.Writer, c *cart.Cart) {
	for _, l := range c.Lines() {
		fmt.Fprintf(out, "%3d x %-20s %-8s %10s\n", l.Qty, l.FishName, l.Preparation, l.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(out, "estimate %s\n", c.Total().StringFixed(2))
}
