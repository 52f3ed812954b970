package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/spf13/cobra"

	"gmocoin/pkg/core"
	"gmocoin/pkg/exchange"
	"gmocoin/pkg/exchange/gmocoin"
)

func symbolArg(args []string) core.Symbol {
	if len(args) == 0 {
		return ""
	}
	return core.Symbol(strings.ToUpper(args[0]))
}

func num(d *apd.Decimal) string {
	return d.Text('f')
}

func ts(t time.Time) string {
	return t.Format("2006-01-02 15:04:05.000 MST")
}

func (a *app) table(header string, rows func(w *tabwriter.Writer)) error {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	return w.Flush()
}

func pagingFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 0, "page number, starting at 1")
	cmd.Flags().Int("count", 0, fmt.Sprintf("items per page, at most %d", exchange.MaxCount))
}

func pagingOptions(cmd *cobra.Command) []exchange.Option {
	var opts []exchange.Option
	if page, _ := cmd.Flags().GetInt("page"); page != 0 {
		opts = append(opts, exchange.WithPage(page))
	}
	if count, _ := cmd.Flags().GetInt("count"); count != 0 {
		opts = append(opts, exchange.WithCount(count))
	}
	return opts
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the exchange's operating state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, g *gmocoin.GMOExchange) error {
				resp, err := g.GetStatus(ctx)
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return a.printJSON(resp)
				}
				_, err = fmt.Fprintf(a.out, "Status: %s\nResponse time: %s\n", resp.Data.Status, ts(resp.ResponseTime))
				return err
			})
		},
	}
}

func (a *app) tickerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ticker [symbol]",
		Short: "Show the latest rates, of every symbol when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, g *gmocoin.GMOExchange) error {
				resp, err := g.GetTicker(ctx, symbolArg(args))
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return a.printJSON(resp)
				}
				return a.table("SYMBOL\tLAST\tBID\tASK\tHIGH\tLOW\tVOLUME\tTIME", func(w *tabwriter.Writer) {
					for i := range resp.Data {
						t := &resp.Data[i]
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
							t.Symbol, num(&t.Last), num(&t.Bid), num(&t.Ask), num(&t.High), num(&t.Low), num(&t.Volume), ts(t.Timestamp))
					}
				})
			})
		},
	}
}

func (a *app) orderBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orderbook <symbol>",
		Short: "Show the order book of a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			depth, _ := cmd.Flags().GetInt("depth")
			return a.run(func(ctx context.Context, g *gmocoin.GMOExchange) error {
				resp, err := g.GetOrderBook(ctx, symbolArg(args))
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return a.printJSON(resp)
				}
				book := resp.Data
				return a.table("SIDE\tPRICE\tSIZE", func(w *tabwriter.Writer) {
					for i := 0; i < len(book.Asks) && i < depth; i++ {
						fmt.Fprintf(w, "ask\t%s\t%s\n", num(&book.Asks[i].Price), num(&book.Asks[i].Size))
					}
					for i := 0; i < len(book.Bids) && i < depth; i++ {
						fmt.Fprintf(w, "bid\t%s\t%s\n", num(&book.Bids[i].Price), num(&book.Bids[i].Size))
					}
				})
			})
		},
	}
	cmd.Flags().Int("depth", 10, "levels to print per side")
	return cmd
}

func (a *app) tradesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trades <symbol>",
		Short: "Show recent public executions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pagingOptions(cmd)
			return a.run(func(ctx context.Context, g *gmocoin.GMOExchange) error {
				resp, err := g.GetTrades(ctx, symbolArg(args), opts...)
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return a.printJSON(resp)
				}
				return a.table("TIME\tSIDE\tPRICE\tSIZE", func(w *tabwriter.Writer) {
					for i := range resp.Data.Trades {
						tr := &resp.Data.Trades[i]
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ts(tr.Timestamp), tr.Side, num(&tr.Price), num(&tr.Size))
					}
				})
			})
		},
	}
	pagingFlags(cmd)
	return cmd
}

func (a *app) marginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "margin",
		Short: "Show the margin account summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, g *gmocoin.GMOExchange) error {
				resp, err := g.GetMargin(ctx)
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return a.printJSON(resp)
				}
				m := &resp.Data
				_, err = fmt.Fprintf(a.out, "Margin: %s\nAvailable: %s\nProfit/loss: %s\nActual profit/loss: %s\n",
					num(&m.Margin), num(&m.AvailableAmount), num(&m.ProfitLoss), num(&m.ActualProfitLoss))
				return err
			})
		},
	}
}

func (a *app) assetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "Show asset balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, g *gmocoin.GMOExchange) error {
				resp, err := g.GetAssets(ctx)
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return a.printJSON(resp)
				}
				return a.table("SYMBOL\tAMOUNT\tAVAILABLE\tRATE", func(w *tabwriter.Writer) {
					for i := range resp.Data {
						as := &resp.Data[i]
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", as.Symbol, num(&as.Amount), num(&as.Available), num(&as.ConversionRate))
					}
				})
			})
		},
	}
}

func (a *app) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders <symbol>",
		Short: "Show open orders of a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pagingOptions(cmd)
			return a.run(func(ctx context.Context, g *gmocoin.GMOExchange) error {
				resp, err := g.GetActiveOrders(ctx, symbolArg(args), opts...)
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return a.printJSON(resp)
				}
				return a.table("ID\tSIDE\tTYPE\tPRICE\tSIZE\tEXECUTED\tSTATUS", func(w *tabwriter.Writer) {
					for i := range resp.Data.Orders {
						o := &resp.Data.Orders[i]
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
							o.OrderID, o.Side, o.ExecutionType, num(&o.Price), num(&o.Size), num(&o.ExecutedSize), o.Status)
					}
				})
			})
		},
	}
	pagingFlags(cmd)
	return cmd
}

func (a *app) positionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "positions [symbol]",
		Short: "Summarize open leveraged positions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, g *gmocoin.GMOExchange) error {
				resp, err := g.GetPositionSummary(ctx, symbolArg(args))
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return a.printJSON(resp)
				}
				return a.table("SYMBOL\tSIDE\tQUANTITY\tORDERED\tAVG RATE\tP/L", func(w *tabwriter.Writer) {
					for i := range resp.Data {
						p := &resp.Data[i]
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Symbol, p.Side,
							num(&p.SumPositionQuantity), num(&p.SumOrderQuantity), num(&p.AveragePositionRate), num(&p.PositionLossGain))
					}
				})
			})
		},
	}
}

func (a *app) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an open order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q: %w", args[0], err)
			}
			return a.run(func(ctx context.Context, g *gmocoin.GMOExchange) error {
				if _, err := g.CancelOrder(ctx, id); err != nil {
					return err
				}
				_, err := fmt.Fprintf(a.out, "Order %d cancelled\n", id)
				return err
			})
		},
	}
}
