package contract

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Presale, factory and ERC-20 ABIs, limited to the entries the launchpad uses.
var (
	PresaleABI = mustParseABI(presaleABIJSON)
	FactoryABI = mustParseABI(factoryABIJSON)
	ERC20ABI   = mustParseABI(erc20ABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic("contract: invalid embedded ABI: " + err.Error())
	}
	return parsed
}

const presaleABIJSON = `[
  {"type":"function","name":"buyToken","stateMutability":"payable",
   "inputs":[{"name":"_token","type":"address"},{"name":"_amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"claim","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"contributorEmergencyWithdrawal","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"withdrawContribution","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"finalize","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"cancel","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"withdrawCancelledTokens","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"setSalePeriodParams","stateMutability":"nonpayable",
   "inputs":[{"name":"_preSaleStartTime","type":"uint256"},{"name":"_preSaleEndTime","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"totalTokensSold","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getTotalContributors","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"contributorDetails","stateMutability":"view",
   "inputs":[{"name":"","type":"address"}],
   "outputs":[{"name":"amount","type":"uint256"},{"name":"isClaimed","type":"bool"},{"name":"isRefunded","type":"bool"}]},
  {"type":"function","name":"isCancelled","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"isFinalized","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"owner","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address"}]}
]`

const factoryABIJSON = `[
  {"type":"function","name":"createPreSale","stateMutability":"payable",
   "inputs":[
     {"name":"_rate","type":"uint256"},
     {"name":"_saleToken","type":"address"},
     {"name":"_totalTokensforSale","type":"uint256"},
     {"name":"_minBuyLimit","type":"uint256"},
     {"name":"_maxBuyLimit","type":"uint256"},
     {"name":"_preSaleStartTime","type":"uint256"},
     {"name":"_preSaleEndTime","type":"uint256"},
     {"name":"_tokenWL","type":"address[]"},
     {"name":"_tokenPrices","type":"uint256[]"}
   ],"outputs":[]},
  {"type":"function","name":"serviceFee","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"serviceReceiver","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"owner","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"preSales","stateMutability":"view",
   "inputs":[{"name":"","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"userPreSales","stateMutability":"view",
   "inputs":[{"name":"","type":"address"},{"name":"","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"event","name":"PreSaleCreated","anonymous":false,
   "inputs":[{"name":"preSaleAddress","type":"address","indexed":false}]}
]`

const erc20ABIJSON = `[
  {"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"allowance","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable",
   "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`
