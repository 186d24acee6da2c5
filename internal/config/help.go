package config

const help = `Usage: conlist-workload [options]

Runs a random concurrent workload against a locked list and verifies
that held iterators survive removal and every removed node is released.

Options:
  -w -workers      <int>      number of concurrent workers
  -ops             <int>      operations per worker, 0 for unlimited
  -rps             <int>      operations per second across all workers, 0 for unlimited
  -duration        <duration> maximum run time, 0 for unlimited

  -initial         <int>      number of values the list starts with
  -values          <int>      size of the random value domain
  -max-held        <int>      iterators each worker holds across mutations

  -metrics-addr    <string>   address to serve prometheus metrics on
  -debug                      enable debug logging
`
